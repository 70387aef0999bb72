package dto

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeState is the persisted shape of the theme store.
type ThemeState struct {
	Theme Theme `json:"theme"`
}

type SetThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}
