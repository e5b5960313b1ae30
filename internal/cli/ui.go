package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nugetnpm/pkg/convert"
	"github.com/matzehuels/nugetnpm/pkg/errors"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleFailed      = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Run Summary
// =============================================================================

// statsLine formats run statistics as one dot-separated line.
func statsLine(s convert.Stats, edges int) string {
	parts := []string{
		fmt.Sprintf("%d packages", s.Packages),
		fmt.Sprintf("%d edges", edges),
		fmt.Sprintf("%d written", s.Written),
	}
	if s.Preserved > 0 {
		parts = append(parts, fmt.Sprintf("%d preserved", s.Preserved))
	}
	if s.Placeholders > 0 {
		parts = append(parts, fmt.Sprintf("%d placeholders", s.Placeholders))
	}
	parts = append(parts, fmt.Sprintf("%d files", s.Files))

	line := StyleDim.Render(strings.Join(parts, " · "))
	if s.Failures > 0 {
		line += StyleDim.Render(" · ") + styleFailed.Render(fmt.Sprintf("%d failed", s.Failures))
	}
	return line
}

// printSummary prints the outcome of a conversion run.
func printSummary(res *convert.Result, rs *runStats) {
	s := res.Stats()
	if s.Failures == 0 && s.CopyFailures == 0 {
		printSuccess("Converted %s", StyleHighlight.Render(res.Root.String()))
	} else {
		printError("Converted %s with errors", StyleHighlight.Render(res.Root.String()))
	}
	fmt.Println("  " + statsLine(s, len(res.Edges)))

	for _, f := range res.Failures {
		printWarning("%s: %s", f.Identity, errors.UserMessage(f.Err))
	}
	if s.CopyFailures > 0 {
		printWarning("%d library files could not be copied", s.CopyFailures)
	}
	if n := len(res.Cycles); n > 0 {
		printInfo("%d dependency cycles", n)
	}
	if n := len(res.Unbounded); n > 0 {
		printInfo("%d dependencies without a minimum version were not walked", n)
		for _, u := range res.Unbounded {
			printDetail("%s", u.Err())
		}
	}
	if n := len(res.Truncated); n > 0 {
		printInfo("%d packages at the depth limit", n)
	}
	if rs != nil {
		printDetail("%d requests · %d cache hits · %d cache misses",
			rs.requests.Load(), rs.cacheHits.Load(), rs.cacheMisses.Load())
	}
}
