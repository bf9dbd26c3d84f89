package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	teal      = lipgloss.Color("#089083")
	gold      = lipgloss.Color("#D4AF37")
	dimGray   = lipgloss.Color("#6C757D")
	lightGray = lipgloss.Color("#9CA3AF")
	white     = lipgloss.Color("#F9FAFB")
	green     = lipgloss.Color("#10B981")
	red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(white).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(white).
			Background(teal).
			Bold(true).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lightGray)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	accentStyle = lipgloss.NewStyle().
			Foreground(teal)

	starStyle = lipgloss.NewStyle().
			Foreground(gold)

	errorStyle = lipgloss.NewStyle().
			Foreground(red)

	successStyle = lipgloss.NewStyle().
			Foreground(green)

	selectedStyle = lipgloss.NewStyle().
			Foreground(white).
			Background(teal).
			Padding(0, 1)

	genreStyle = lipgloss.NewStyle().
			Foreground(white).
			Background(teal).
			Padding(0, 1).
			MarginRight(1)
)

// Indicator characters
const (
	inLibraryChar = "▣"
	starChar      = "★"
	emptyStarChar = "☆"
)

var inLibraryMark = successStyle.Render(inLibraryChar)

// starRow renders a 0-5 rating as filled and empty stars. A missing
// catalog rating renders as a single dim empty star.
func starRow(rating *float64) string {
	if rating == nil {
		return dimStyle.Render(emptyStarChar)
	}

	full := int(*rating)
	row := ""
	for i := 0; i < full; i++ {
		row += starChar
	}
	for i := full; i < 5; i++ {
		row += emptyStarChar
	}
	return starStyle.Render(row)
}

// starRowInt renders the user's own integer rating.
func starRowInt(rating int) string {
	if rating <= 0 {
		return dimStyle.Render("unrated")
	}
	f := float64(rating)
	return starRow(&f)
}
