package essay

import (
	"strconv"

	"ai-writer-api/internal/domain/entity"
)

const (
	// DefaultWordCount 表单默认字数，也是自定义字数缺失时的回落值
	DefaultWordCount = 500
	MinCustomWords   = 50
	MaxCustomWords   = 5000
)

// WordCountTypes 表单可选的字数类型
var WordCountTypes = []entity.WordCountType{
	entity.WordCount100,
	entity.WordCount500,
	entity.WordCount700,
	entity.WordCount1000,
	entity.WordCountCustom,
}

// ResolveWordCount 将字数选项解析为目标字数
func ResolveWordCount(t entity.WordCountType, custom *int) int {
	if t == entity.WordCountCustom {
		if custom != nil && *custom > 0 {
			return *custom
		}
		return DefaultWordCount
	}

	n, err := strconv.Atoi(string(t))
	if err != nil || n <= 0 {
		return DefaultWordCount
	}
	return n
}

func validWordCountType(t entity.WordCountType) bool {
	for _, v := range WordCountTypes {
		if v == t {
			return true
		}
	}
	return false
}
