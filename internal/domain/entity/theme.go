package entity

import "fmt"

// Theme 界面主题
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme 解析主题取值
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	default:
		return "", false
	}
}

// DeriveTheme 由系统偏好推导主题
func DeriveTheme(prefersDark bool) Theme {
	if prefersDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle 切换主题
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemePreferenceKey 主题偏好存储键
func ThemePreferenceKey(clientID string) string {
	return fmt.Sprintf("pref:%s:theme", clientID)
}
