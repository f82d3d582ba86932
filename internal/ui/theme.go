// Package ui provides the LabelSheet desktop application.
//
// This file defines a compact Fyne theme for the dense layout forms.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LabelSheetTheme wraps the default Fyne theme with compact sizing overrides.
type LabelSheetTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewLabelSheetTheme creates a theme for a preference of "light", "dark" or
// "system". Unknown names follow the system variant.
func NewLabelSheetTheme(name string) *LabelSheetTheme {
	t := &LabelSheetTheme{base: theme.DefaultTheme()}
	t.SetPreference(name)
	return t
}

// SetPreference updates the theme variant.
func (t *LabelSheetTheme) SetPreference(name string) {
	switch name {
	case "light":
		t.variant, t.system = theme.VariantLight, false
	case "dark":
		t.variant, t.system = theme.VariantDark, false
	default:
		t.system = true
	}
}

// Color delegates to the base theme, forcing the variant unless the system
// preference is followed.
func (t *LabelSheetTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.system {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *LabelSheetTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *LabelSheetTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *LabelSheetTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}
