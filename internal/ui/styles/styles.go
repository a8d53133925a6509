// Package styles contains Lip Gloss style definitions.
package styles

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tommyrac/Dawn/internal/theme"
)

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#2D2D2D", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Room names on inactive cards
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Inactive cards
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Card under the cursor

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Active room accent, replaced on every background transition
	AccentColor lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}

	TitleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	MenuStyle = lipgloss.NewStyle().
			Foreground(TextPrimaryColor).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)

	MenuItemStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true)

	baseCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Align(lipgloss.Center).
			Padding(0, 1)
)

// CardWidth is the inner width of a room card: the widest room name plus padding.
var CardWidth = widestRoom() + 5

func widestRoom() int {
	widest := 0
	for _, room := range theme.Rooms {
		widest = max(widest, runewidth.StringWidth(room))
	}
	return widest
}

// CardStyle returns the style for a room card.
// The active card is drawn in the accent color, the focused one with a highlighted border.
func CardStyle(active, focused bool) lipgloss.Style {
	style := baseCardStyle.Width(CardWidth).Foreground(TextSecondaryColor).BorderForeground(BorderDefaultColor)
	if focused {
		style = style.BorderForeground(BorderFocusColor)
	}
	if active {
		style = style.Bold(true).Foreground(AccentColor)
		if !focused {
			style = style.BorderForeground(AccentColor)
		}
	}
	return style
}

var hexColor = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)

// GradientAccent picks a terminal color for a CSS background value: the last
// color stop of its gradient. ok is false when background has no hex color.
func GradientAccent(background string) (lipgloss.Color, bool) {
	stops := hexColor.FindAllString(background, -1)
	if len(stops) == 0 {
		return "", false
	}
	return lipgloss.Color(stops[len(stops)-1]), true
}

// ApplyBackground sets AccentColor from a CSS background value.
// Values without a color stop leave the accent unchanged.
func ApplyBackground(background string) {
	if c, ok := GradientAccent(background); ok {
		AccentColor = c
	}
}
