package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat interface
type TUITheme struct {
	Name string

	Surface lipgloss.Color
	Border  lipgloss.Color

	// User and assistant rows are tinted differently
	User      lipgloss.Color
	Assistant lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes, in display order
var tuiThemes = []TUITheme{
	{
		Name:      "tokyonight",
		Surface:   "#24283b",
		Border:    "#414868",
		User:      "#9ece6a",
		Assistant: "#7aa2f7",
		Accent:    "#bb9af7",
		Error:     "#f7768e",
		Text:      "#c0caf5",
		TextDim:   "#565f89",
		TextMute:  "#3b4261",
	},
	{
		Name:      "catppuccin",
		Surface:   "#313244",
		Border:    "#45475a",
		User:      "#a6e3a1",
		Assistant: "#89b4fa",
		Accent:    "#cba6f7",
		Error:     "#f38ba8",
		Text:      "#cdd6f4",
		TextDim:   "#6c7086",
		TextMute:  "#45475a",
	},
	{
		Name:      "nord",
		Surface:   "#3b4252",
		Border:    "#4c566a",
		User:      "#a3be8c",
		Assistant: "#88c0d0",
		Accent:    "#b48ead",
		Error:     "#bf616a",
		Text:      "#eceff4",
		TextDim:   "#7b88a1",
		TextMute:  "#4c566a",
	},
	{
		Name:      "dracula",
		Surface:   "#44475a",
		Border:    "#6272a4",
		User:      "#50fa7b",
		Assistant: "#8be9fd",
		Accent:    "#ff79c6",
		Error:     "#ff5555",
		Text:      "#f8f8f2",
		TextDim:   "#6272a4",
		TextMute:  "#44475a",
	},
}

var (
	themeMu         sync.RWMutex
	currentTUITheme = tuiThemes[0]
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates a theme by name; unknown names leave it unchanged
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range tuiThemes {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// TUIThemeNames returns the theme names in display order
func TUIThemeNames() []string {
	names := make([]string, len(tuiThemes))
	for i, t := range tuiThemes {
		names[i] = t.Name
	}
	return names
}
