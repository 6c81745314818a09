package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives user-facing output; logs go to the logger's writer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Colors & Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue for paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber for counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// status pairs an icon with its color.
type status struct {
	icon  string
	color lipgloss.Color
}

var (
	statusSuccess = status{iconSuccess, colorGreen}
	statusError   = status{iconError, colorRed}
	statusWarning = status{iconWarning, colorYellow}
	statusInfo    = status{iconInfo, colorGray}
)

func (s status) println(msg string) {
	fmt.Fprintln(stdout, lipgloss.NewStyle().Foreground(s.color).Render(s.icon)+" "+msg)
}

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) { statusSuccess.println(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { statusError.println(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { statusInfo.println(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarning.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }

// =============================================================================
// Graph Output
// =============================================================================

// printStats prints graph statistics on one line, e.g. "4 nodes · 3 edges".
func printStats(nodeCount, edgeCount, dropped int) {
	fmt.Fprintln(stdout, "  "+statsLine(nodeCount, edgeCount, dropped))
}

func statsLine(nodeCount, edgeCount, dropped int) string {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)),
		StyleDim.Render(fmt.Sprintf("%d edges", edgeCount)),
	}
	if dropped > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d dropped", dropped)))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
