package termcolor

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type Color struct {
	R, G, B uint8
}

// To256 maps c onto the xterm 256 color palette.
func (c Color) To256() uint8 {
	if c.R == c.G && c.G == c.B {
		switch {
		case c.R < 8:
			return 16
		case c.R > 248:
			return 231
		}
		step := (int(c.R) - 8) / 10
		if step > 23 {
			step = 23
		}
		return uint8(232 + step)
	}
	return uint8(16 + 36*cubeIndex(c.R) + 6*cubeIndex(c.G) + cubeIndex(c.B))
}

func cubeIndex(v uint8) int {
	switch {
	case v < 48:
		return 0
	case v < 115:
		return 1
	default:
		return (int(v) - 35) / 40
	}
}

type ColorMode int

const (
	ColorModeNone ColorMode = iota
	ColorMode256
	ColorModeTruecolor
)

// DetectColorMode honours NO_COLOR, then FORCE_COLOR, then whether stdout
// is a terminal.
func DetectColorMode() ColorMode {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return ColorModeNone
	}
	force := os.Getenv("FORCE_COLOR")
	if force == "" || force == "0" {
		fd := os.Stdout.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return ColorModeNone
		}
		if os.Getenv("TERM") == "dumb" {
			return ColorModeNone
		}
	}
	switch strings.ToLower(os.Getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return ColorModeTruecolor
	}
	return ColorMode256
}

type Styler struct {
	mode ColorMode
}

func NewStyler(mode ColorMode) Styler {
	return Styler{mode: mode}
}

func (s Styler) Enabled() bool {
	return s.mode != ColorModeNone
}

func (s Styler) Fg(c Color, text string) string {
	switch s.mode {
	case ColorModeTruecolor:
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[39m", c.R, c.G, c.B, text)
	case ColorMode256:
		return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[39m", c.To256(), text)
	default:
		return text
	}
}

func (s Styler) Bold(text string) string {
	if !s.Enabled() {
		return text
	}
	return "\x1b[1m" + text + "\x1b[22m"
}

func (s Styler) Dim(text string) string {
	if !s.Enabled() {
		return text
	}
	return "\x1b[2m" + text + "\x1b[22m"
}

// Theme names the styles used for command output.
type Theme struct {
	styler  Styler
	success Color
	warning Color
	accent  Color
}

func NewTheme(mode ColorMode) Theme {
	return Theme{
		styler:  NewStyler(mode),
		success: Color{R: 0x3f, G: 0xb9, B: 0x50},
		warning: Color{R: 0xd2, G: 0x99, B: 0x22},
		accent:  Color{R: 0x58, G: 0xa6, B: 0xff},
	}
}

func (t Theme) SuccessText(text string) string {
	return t.styler.Bold(t.styler.Fg(t.success, text))
}

func (t Theme) WarningText(text string) string {
	return t.styler.Fg(t.warning, text)
}

func (t Theme) AccentText(text string) string {
	return t.styler.Fg(t.accent, text)
}

func (t Theme) MutedText(text string) string {
	return t.styler.Dim(text)
}
