// Package render provides markdown rendering and color themes for terminal output.
package render

import "github.com/diogo/intakechat/internal/config"

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour standard style name ("dark", "light", "notty",
	// "dracula", "tokyo-night", "pink", "ascii") or a path to a JSON style.
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return FromConfig(config.DefaultMarkdownConfig())
}

// FromConfig builds Options from the user's markdown settings
func FromConfig(md config.MarkdownConfig) Options {
	style := md.Style
	if style == "" {
		style = "dark"
	}
	return Options{
		Width:            80,
		Style:            style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width < 20 {
		width = 20
	}
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
