package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/maskedit/internal/editor"
	"github.com/example/maskedit/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Thickness holds the stroke thickness input settings.
type Thickness struct {
	Value int
	Min   int
	Max   int
}

// Container is the area an image is fitted into.
type Container struct {
	Width  int
	Height int
}

// Export holds encoder settings.
type Export struct {
	JPEGQuality int
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	SaveDir   string
	Color     color.RGBA
	Thickness Thickness
	Container Container
	Export    Export
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// Default values for a fresh Config.
const (
	DefaultContainerWidth  = 1024
	DefaultContainerHeight = 768
	DefaultJPEGQuality     = 92
)

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Color: color.RGBA{A: 255},
		Thickness: Thickness{
			Value: editor.DefaultThickness,
			Min:   editor.DefaultMinThickness,
			Max:   editor.DefaultMaxThickness,
		},
		Container: Container{Width: DefaultContainerWidth, Height: DefaultContainerHeight},
		Export:    Export{JPEGQuality: DefaultJPEGQuality},
		Themes:    make(map[string]*theme.Theme),
	}
}

// NewThickness builds the editor thickness input from the settings.
func (c *Config) NewThickness() *editor.Thickness {
	return editor.NewThickness(c.Thickness.Value, c.Thickness.Min, c.Thickness.Max)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "color = %s\n", theme.FormatColor(c.Color))
	sb.WriteString("\n")

	sb.WriteString("[thickness]\n")
	fmt.Fprintf(&sb, "value = %d\n", c.Thickness.Value)
	fmt.Fprintf(&sb, "min = %d\n", c.Thickness.Min)
	fmt.Fprintf(&sb, "max = %d\n", c.Thickness.Max)
	sb.WriteString("\n")

	sb.WriteString("[container]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Container.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Container.Height)
	sb.WriteString("\n")

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "jpeg_quality = %d\n", c.Export.JPEGQuality)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range themeFields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.name, theme.FormatColor(f.value))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

type themeField struct {
	name  string
	value color.RGBA
}

func themeFields(t *theme.Theme) []themeField {
	return []themeField{
		{"Background", t.Background},
		{"Foreground", t.Foreground},
		{"BarBackground", t.BarBackground},
		{"ButtonBackground", t.ButtonBackground},
		{"ButtonBackgroundHover", t.ButtonBackgroundHover},
		{"ButtonBackgroundPress", t.ButtonBackgroundPress},
		{"ButtonText", t.ButtonText},
		{"ButtonTextDisabled", t.ButtonTextDisabled},
		{"ButtonBorder", t.ButtonBorder},
		{"CheckerLight", t.CheckerLight},
		{"CheckerDark", t.CheckerDark},
		{"Cursor", t.Cursor},
		{"Shadow", t.Shadow},
	}
}

// ResolveTheme returns the theme named by Theme: a [theme.NAME] section
// first, then the theme loader.
func (c *Config) ResolveTheme(l *theme.Loader) (*theme.Theme, error) {
	if t, ok := c.Themes[c.Theme]; ok {
		return t, nil
	}
	return l.Load(c.Theme)
}
