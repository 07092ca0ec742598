package ui

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestEfficiencyColor(t *testing.T) {
	tests := []struct {
		name       string
		efficiency float64
		want       lipgloss.TerminalColor
	}{
		{"not measured", 0, DarkTUITheme.Dim},
		{"linear scaling", 1.0, DarkTUITheme.Success},
		{"good threshold", GoodEfficiency, DarkTUITheme.Success},
		{"fair", 0.5, DarkTUITheme.Warning},
		{"fair threshold", FairEfficiency, DarkTUITheme.Warning},
		{"poor", 0.2, DarkTUITheme.Error},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DarkTUITheme.EfficiencyColor(tt.efficiency); got != tt.want {
				t.Errorf("EfficiencyColor(%v) = %v, want %v", tt.efficiency, got, tt.want)
			}
		})
	}

	if _, ok := NoColorTUITheme.EfficiencyColor(0.9).(lipgloss.NoColor); !ok {
		t.Error("no-color palette should not grade efficiency")
	}
}

func TestInitTheme(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	InitTheme(true)
	if GetCurrentTheme().Name != "none" {
		t.Error("--no-color should disable colors")
	}
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("color accessors should be empty without colors")
	}
	if _, ok := GetCurrentTUITheme().Accent.(lipgloss.NoColor); !ok {
		t.Error("TUI theme should follow the no-color theme")
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR should disable colors")
	}
}

func TestInitTheme_Default(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	InitTheme(false)
	if _, set := os.LookupEnv("NO_COLOR"); !set && GetCurrentTheme().Name != "dark" {
		t.Errorf("default theme = %q, want dark", GetCurrentTheme().Name)
	}
}

func TestColorAccessors(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	SetCurrentTheme(DarkTheme)
	pairs := map[string][2]string{
		"reset":     {ColorReset(), DarkTheme.Reset},
		"red":       {ColorRed(), DarkTheme.Error},
		"green":     {ColorGreen(), DarkTheme.Success},
		"yellow":    {ColorYellow(), DarkTheme.Warning},
		"blue":      {ColorBlue(), DarkTheme.Primary},
		"magenta":   {ColorMagenta(), DarkTheme.Info},
		"cyan":      {ColorCyan(), DarkTheme.Secondary},
		"bold":      {ColorBold(), DarkTheme.Bold},
		"underline": {ColorUnderline(), DarkTheme.Underline},
	}
	for name, p := range pairs {
		if p[0] != p[1] {
			t.Errorf("%s = %q, want %q", name, p[0], p[1])
		}
	}
	if GetCurrentTUITheme() != DarkTUITheme {
		t.Error("dark theme should map to the dark TUI palette")
	}
}
