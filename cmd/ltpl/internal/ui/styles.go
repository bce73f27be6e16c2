// Package ui provides terminal styling for ltpl output.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	ColorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	PassStyle    = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle    = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	HeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	CommandStyle = lipgloss.NewStyle().Bold(true)
)

const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconStep = "›"
)

// DisableColor strips styling when NO_COLOR is set or output is not a
// terminal-capable profile.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// InitColor applies the NO_COLOR convention.
func InitColor() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		DisableColor()
	}
}

// RenderStep renders a progress line for a scaffolding step.
func RenderStep(s string) string {
	return AccentStyle.Render(IconStep) + " " + s
}

// RenderPass renders text with pass (green) styling.
func RenderPass(s string) string {
	return PassStyle.Render(s)
}

// RenderWarn renders text with warning (yellow) styling.
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderFail renders text with fail (red) styling.
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderHeading renders a bold accented heading.
func RenderHeading(s string) string {
	return HeadingStyle.Render(s)
}

// RenderCommand renders a shell command the user should type.
func RenderCommand(s string) string {
	return "  " + CommandStyle.Render(s)
}
