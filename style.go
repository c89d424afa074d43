package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentFg  = lipgloss.Color("#7C3AED")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	errorFg   = lipgloss.Color("#E74C3C")
	warnFg    = lipgloss.Color("#F39C12")
	borderCol = lipgloss.Color("#243141")

	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errorStyle = lipgloss.NewStyle().Foreground(errorFg).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(warnFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
)

// errResult is returned by commands whose result carries errors; the
// errors themselves have already been printed.
var errResult = errors.New("control script failed")

// printDiagnostics writes the result's errors and warnings to w and
// returns errResult when there were errors.
func printDiagnostics(w io.Writer, res EvalResult) error {
	for _, e := range res.Warnings {
		fmt.Fprintln(w, warnStyle.Render("warning: "+e.Message))
	}
	for _, e := range res.Errors {
		msg := e.Message
		if e.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", e.Line, msg)
		}
		fmt.Fprintln(w, errorStyle.Render("error: "+msg))
	}
	if len(res.Errors) > 0 {
		return errResult
	}
	return nil
}

// renderSummary formats a structure summary as a bordered box.
func renderSummary(s *StructureSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Structure"))
	b.WriteByte('\n')
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(fmt.Sprintf("%-12s", label)), value)
	}
	row("dimensions", fmt.Sprint(s.Dimensions))
	row("grid", s.Grid)
	row("cells", fmt.Sprint(s.Cells))
	row("chunks", fmt.Sprint(s.Chunks))
	row("objects", fmt.Sprint(s.Objects))
	row("epsilon", fmt.Sprintf("%g .. %g", s.EpsMin, s.EpsMax))
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
