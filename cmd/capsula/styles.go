// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/capsula-run/capsula/pkg/types"
)

// Color palette shared by all CLI output. Tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple, used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green, used for successful outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, used for errors and failed runs.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, used for warnings and non-zero exits.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, used for keys, names and paths.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for run names, configuration keys and paths.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)

// exitCodeStyle picks the style used to show an exit code.
func exitCodeStyle(code types.ExitCode) lipgloss.Style {
	if code == 0 {
		return SuccessStyle
	}
	return WarningStyle
}
