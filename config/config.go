// Package config loads the user configuration for the demo frontend.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
)

type Config struct {
	TabSize    int    `json:"tab_size"`
	WordWrap   bool   `json:"word_wrap"`
	LineEnding string `json:"line_ending"` // "auto", "lf", "crlf", "cr"
	Theme      string `json:"theme"`
}

// ColorScheme is the palette shared by the highlighter and the frontend.
type ColorScheme struct {
	Name      string
	Keyword   tcell.Color
	String    tcell.Color
	Comment   tcell.Color
	Number    tcell.Color
	Function  tcell.Color
	Type      tcell.Color
	Builtin   tcell.Color
	Text      tcell.Color
	Gutter    tcell.Color
	Selection tcell.Color
}

var Themes = map[string]*ColorScheme{
	"dark": {
		Name:      "Dark",
		Keyword:   tcell.ColorBlue,
		String:    tcell.ColorGreen,
		Comment:   tcell.ColorGray,
		Number:    tcell.ColorDarkCyan,
		Function:  tcell.ColorYellow,
		Type:      tcell.ColorFuchsia,
		Builtin:   tcell.ColorBlue,
		Text:      tcell.ColorWhite,
		Gutter:    tcell.ColorGray,
		Selection: tcell.ColorDarkBlue,
	},
	"light": {
		Name:      "Light",
		Keyword:   tcell.ColorNavy,
		String:    tcell.ColorDarkGreen,
		Comment:   tcell.ColorDarkGray,
		Number:    tcell.ColorTeal,
		Function:  tcell.ColorOlive,
		Type:      tcell.ColorPurple,
		Builtin:   tcell.ColorNavy,
		Text:      tcell.ColorBlack,
		Gutter:    tcell.ColorDarkGray,
		Selection: tcell.ColorLightBlue,
	},
}

// GetTheme resolves the configured theme, falling back to dark for
// unrecognized names.
func (c *Config) GetTheme() *ColorScheme {
	theme, ok := Themes[c.Theme]
	if !ok {
		return Themes["dark"]
	}
	return theme
}

func Default() *Config {
	return &Config{
		TabSize:    4,
		WordWrap:   true,
		LineEnding: "auto",
		Theme:      "dark",
	}
}

func path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "textnav", "config.json")
}

// Load reads the config file, filling unset fields with defaults. A missing
// file is not an error.
func Load() (*Config, error) {
	cfg := Default()
	p := path()
	if p == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.TabSize <= 0 {
		cfg.TabSize = 4
	}
	return cfg, nil
}
