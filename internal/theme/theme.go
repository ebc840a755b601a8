package theme

import (
	"image/color"
)

// Theme defines the colours of the editor window.
type Theme struct {
	Name string

	Background color.RGBA // Window area around the canvas
	Foreground color.RGBA // Status text

	// Shortcut bar
	BarBackground         color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonTextDisabled    color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	Cursor       color.RGBA // Ring that previews the stroke thickness
	Shadow       color.RGBA // Drop shadow under the canvas, transparent to disable
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "default",
		Background:            color.RGBA{230, 230, 230, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		BarBackground:         color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextDisabled:    color.RGBA{130, 130, 130, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		Cursor:                color.RGBA{255, 0, 0, 200},
		Shadow:                color.RGBA{0, 0, 0, 90},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return &Theme{
		Name:                  "dark",
		Background:            color.RGBA{40, 40, 40, 255},
		Foreground:            color.RGBA{230, 230, 230, 255},
		BarBackground:         color.RGBA{30, 30, 30, 255},
		ButtonBackground:      color.RGBA{60, 60, 60, 255},
		ButtonBackgroundHover: color.RGBA{80, 80, 80, 255},
		ButtonBackgroundPress: color.RGBA{100, 100, 100, 255},
		ButtonText:            color.RGBA{230, 230, 230, 255},
		ButtonTextDisabled:    color.RGBA{110, 110, 110, 255},
		ButtonBorder:          color.RGBA{150, 150, 150, 255},
		CheckerLight:          color.RGBA{70, 70, 70, 255},
		CheckerDark:           color.RGBA{50, 50, 50, 255},
		Cursor:                color.RGBA{0, 200, 255, 220},
		Shadow:                color.RGBA{0, 0, 0, 160},
	}
}

// Builtin returns the named built-in theme, or nil.
func Builtin(name string) *Theme {
	switch name {
	case "", "default":
		return Default()
	case "dark":
		return Dark()
	}
	return nil
}
