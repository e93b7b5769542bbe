// Package config loads a vtrender.Theme from a TOML file, matching the
// retrieval pack's terminal-app convention of TOML-configured themes.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/vtrender"
	"github.com/gogpu/vtrender/internal/color"
)

// themeFile is the on-disk TOML shape: CSS-style color strings, decoded
// with BurntSushi/toml then resolved to vtrender.ColorTag truecolor
// values via internal/color's CSS parser.
type themeFile struct {
	Colors struct {
		Foreground string `toml:"foreground"`
		Background string `toml:"background"`
		Cursor     string `toml:"cursor"`

		Selection struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"selection"`

		ANSI     [16]string `toml:"ansi"`
		Extended []string   `toml:"extended"`
	} `toml:"colors"`

	Cursor struct {
		Shape   string  `toml:"shape"` // "block", "underline", "bar"
		Opacity float64 `toml:"opacity"`
	} `toml:"cursor"`
}

// LoadTheme decodes path as TOML and resolves it into a vtrender.Theme.
// Every color field must parse as a CSS-style color string (#rgb,
// #rrggbb, #rrggbbaa, rgb(), rgba()); malformed colors surface as
// vtrender.ErrUnsupportedColor.
func LoadTheme(path string) (vtrender.Theme, error) {
	var tf themeFile
	if _, err := toml.DecodeFile(path, &tf); err != nil {
		return vtrender.Theme{}, fmt.Errorf("config: decoding theme %s: %w", path, err)
	}

	fg, err := parseTag(tf.Colors.Foreground)
	if err != nil {
		return vtrender.Theme{}, err
	}
	bg, err := parseTag(tf.Colors.Background)
	if err != nil {
		return vtrender.Theme{}, err
	}
	cursorColor, err := parseTag(tf.Colors.Cursor)
	if err != nil {
		return vtrender.Theme{}, err
	}

	theme := vtrender.Theme{
		Foreground: fg,
		Background: bg,
		Cursor: vtrender.CursorTheme{
			Color:   cursorColor,
			Opacity: cursorOpacity(tf.Cursor.Opacity),
			Shape:   cursorShape(tf.Cursor.Shape),
		},
	}

	if tf.Colors.Selection.Background != "" {
		selBG, err := parseTag(tf.Colors.Selection.Background)
		if err != nil {
			return vtrender.Theme{}, err
		}
		st := &vtrender.SelectionTheme{Background: selBG}
		if tf.Colors.Selection.Foreground != "" {
			selFG, err := parseTag(tf.Colors.Selection.Foreground)
			if err != nil {
				return vtrender.Theme{}, err
			}
			st.Foreground = &selFG
		}
		theme.Selection = st
	}

	for i, s := range tf.Colors.ANSI {
		if s == "" {
			continue
		}
		tag, err := parseTag(s)
		if err != nil {
			return vtrender.Theme{}, err
		}
		theme.Palette.ANSI[i] = tag
	}
	if len(tf.Colors.Extended) > 0 {
		theme.Palette.Extended = make([]vtrender.ColorTag, len(tf.Colors.Extended))
		for i, s := range tf.Colors.Extended {
			tag, err := parseTag(s)
			if err != nil {
				return vtrender.Theme{}, err
			}
			theme.Palette.Extended[i] = tag
		}
	}

	return theme, nil
}

func parseTag(s string) (vtrender.ColorTag, error) {
	rgba, err := color.ParseCSSColor(s)
	if err != nil {
		return vtrender.ColorTag{}, fmt.Errorf("%w: %w", vtrender.ErrUnsupportedColor, err)
	}
	return vtrender.RGBColor(rgba.R, rgba.G, rgba.B), nil
}

func cursorOpacity(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func cursorShape(s string) vtrender.CursorShape {
	switch s {
	case "underline":
		return vtrender.CursorUnderline
	case "bar":
		return vtrender.CursorBar
	default:
		return vtrender.CursorBlock
	}
}
