package termcolor

import (
	"testing"
)

func TestColorTo256(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  uint8
	}{
		{"red", Color{255, 0, 0}, 196},
		{"green", Color{0, 255, 0}, 46},
		{"blue", Color{0, 0, 255}, 21},
		{"white", Color{255, 255, 255}, 231},
		{"black", Color{0, 0, 0}, 16},
		{"gray128", Color{128, 128, 128}, 244},
		{"gray50", Color{50, 50, 50}, 236},
		{"gray248", Color{248, 248, 248}, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.To256(); got != tt.want {
				t.Fatalf("Color%v.To256() = %d, want %d", tt.color, got, tt.want)
			}
		})
	}
}

func TestStylerModes(t *testing.T) {
	red := Color{255, 0, 0}
	if got := NewStyler(ColorMode256).Fg(red, "LIBR"); got != "\x1b[38;5;196mLIBR\x1b[39m" {
		t.Fatalf("Fg 256 = %q", got)
	}
	if got := NewStyler(ColorModeTruecolor).Fg(red, "LIBR"); got != "\x1b[38;2;255;0;0mLIBR\x1b[39m" {
		t.Fatalf("Fg truecolor = %q", got)
	}

	plain := NewStyler(ColorModeNone)
	if plain.Fg(red, "LIBR") != "LIBR" || plain.Bold("LIBR") != "LIBR" || plain.Dim("LIBR") != "LIBR" {
		t.Fatalf("ColorModeNone should return plain text")
	}
}

func TestThemePlain(t *testing.T) {
	theme := NewTheme(ColorModeNone)
	for _, got := range []string{
		theme.SuccessText("done"),
		theme.WarningText("done"),
		theme.AccentText("done"),
		theme.MutedText("done"),
	} {
		if got != "done" {
			t.Fatalf("plain theme should not style text, got %q", got)
		}
	}
}

func TestDetectColorMode(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "1")
	if DetectColorMode() != ColorModeNone {
		t.Fatalf("NO_COLOR should take precedence over FORCE_COLOR")
	}
}

func TestDetectColorModeForced(t *testing.T) {
	t.Setenv("FORCE_COLOR", "1")
	t.Setenv("COLORTERM", "truecolor")
	// t.Setenv cannot unset, so only run when NO_COLOR is absent.
	if DetectColorMode() == ColorModeNone {
		t.Skip("NO_COLOR is set in the test environment")
	}
	if DetectColorMode() != ColorModeTruecolor {
		t.Fatalf("expected truecolor with COLORTERM=truecolor")
	}
}
