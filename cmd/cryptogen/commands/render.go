package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/cryptogen/internal/pipeline"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true)
)

// renderReport writes the end-of-run summary.
func renderReport(w io.Writer, r *pipeline.Report) {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, o := range r.Stages {
		line := fmt.Sprintf("  %-10s %-8s", o.Stage, o.Result)
		switch o.Result {
		case pipeline.ResultSkipped:
			sb.WriteString(skippedStyle.Render(line))
		case pipeline.ResultFatal:
			sb.WriteString(failureStyle.Render(line))
		default:
			sb.WriteString(valueStyle.Render(line + " " + o.Duration.Round(time.Millisecond).String()))
		}
		sb.WriteString("\n")
	}
	for _, p := range r.Distribution.Projects {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-10s", p.Name)))
		sb.WriteString(valueStyle.Render(fmt.Sprintf(" %d files -> %s", p.Files, p.Target)))
		sb.WriteString("\n")
	}
	if r.Succeeded() {
		sb.WriteString(successStyle.Render(fmt.Sprintf("✓ Generation complete (%s, %d files)", r.Module, r.FilesCopied())))
	} else {
		sb.WriteString(failureStyle.Render(fmt.Sprintf("✗ Generation failed (%s)", r.Module)))
	}
	sb.WriteString("\n")
	_, _ = io.WriteString(w, sb.String())
}

func renderSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, successStyle.Render("✓ "+msg))
}
