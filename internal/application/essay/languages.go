// Package essay 实现作文生成、表单校验、生成生命周期与历史
package essay

// DefaultLanguage 默认输出语言
const DefaultLanguage = "vi"

// Language 输出语言选项
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var languages = []Language{
	{Code: "vi", Name: "Tiếng Việt"},
	{Code: "en", Name: "Tiếng Anh"},
	{Code: "zh", Name: "Tiếng Trung (Giản thể)"},
	{Code: "ru", Name: "Tiếng Nga"},
	{Code: "ja", Name: "Tiếng Nhật"},
	{Code: "fr", Name: "Tiếng Pháp"},
}

var languageNames = func() map[string]string {
	m := make(map[string]string, len(languages))
	for _, l := range languages {
		m[l.Code] = l.Name
	}
	return m
}()

// Languages 返回支持的语言（表单顺序）
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// LanguageName 语言代码转提示词中的语言名，未知代码回落到越南语
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return languageNames[DefaultLanguage]
}

// SupportedLanguage 是否为支持的语言代码
func SupportedLanguage(code string) bool {
	_, ok := languageNames[code]
	return ok
}
