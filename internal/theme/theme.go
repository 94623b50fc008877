// Package theme holds the Lip Gloss styles shared across the UI, built from a
// small set of preset accent palettes the operator can cycle through.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette names an accent colour set.
type Palette struct {
	Name   string
	Accent lipgloss.Color
	Dim    lipgloss.Color
}

// Presets in cycling order.
var Presets = []Palette{
	{Name: "emerald", Accent: lipgloss.Color("42"), Dim: lipgloss.Color("29")},
	{Name: "blue", Accent: lipgloss.Color("39"), Dim: lipgloss.Color("25")},
	{Name: "zinc", Accent: lipgloss.Color("250"), Dim: lipgloss.Color("243")},
	{Name: "indigo", Accent: lipgloss.Color("63"), Dim: lipgloss.Color("60")},
	{Name: "red", Accent: lipgloss.Color("196"), Dim: lipgloss.Color("124")},
	{Name: "amber", Accent: lipgloss.Color("214"), Dim: lipgloss.Color("136")},
	{Name: "pink", Accent: lipgloss.Color("205"), Dim: lipgloss.Color("132")},
}

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Palette Palette

	Title        *lipgloss.Style
	Header       *lipgloss.Style
	Footer       *lipgloss.Style
	Item         *lipgloss.Style
	SelectedItem *lipgloss.Style
	SelectedCell *lipgloss.Style
	Outgoing     *lipgloss.Style
	Incoming     *lipgloss.Style
	Loading      *lipgloss.Style
	Error        *lipgloss.Style
	Warning      *lipgloss.Style
	Info         *lipgloss.Style
	Success      *lipgloss.Style
	ModalBorder  *lipgloss.Style
	ModalTitle   *lipgloss.Style
	Notification *lipgloss.Style
	GaugeFilled  *lipgloss.Style
	GaugeEmpty   *lipgloss.Style
	Prompt       *lipgloss.Style
	Placeholder  *lipgloss.Style
}

var defaultStyles = build(Presets[0])

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Next returns the style set for the palette after the given one, wrapping
// around at the end of the preset list.
func Next(current Palette) Styles {
	for i, preset := range Presets {
		if preset.Name == current.Name {
			return build(Presets[(i+1)%len(Presets)])
		}
	}
	return build(Presets[0])
}

// ByName returns the style set for the named palette, falling back to the
// default set for unknown names.
func ByName(name string) Styles {
	for _, preset := range Presets {
		if preset.Name == name {
			return build(preset)
		}
	}
	return *Default()
}

func build(p Palette) Styles {
	return Styles{
		Palette: p,
		Title: ptr(
			lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		),
		Header: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
		),
		Footer: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		),
		Item: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		),
		SelectedItem: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
		),
		SelectedCell: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(p.Accent).Bold(true),
		),
		Outgoing: ptr(
			lipgloss.NewStyle().Foreground(p.Accent),
		),
		Incoming: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		),
		Loading: ptr(
			lipgloss.NewStyle().Foreground(p.Accent).Italic(true),
		),
		Error: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		),
		Warning: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		),
		Info: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		),
		Success: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		),
		ModalBorder: ptr(
			lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Accent).Padding(0, 1),
		),
		ModalTitle: ptr(
			lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		),
		Notification: ptr(
			lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(p.Dim).Padding(0, 1),
		),
		GaugeFilled: ptr(
			lipgloss.NewStyle().Foreground(p.Accent),
		),
		GaugeEmpty: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		),
		Prompt: ptr(
			lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		),
		Placeholder: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		),
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
