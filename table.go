package harness

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

// printResultsTable prints a per-testcase overview of the run to the console.
func (h *Harness) printResultsTable(runID string) {
	h.config.Log.Info("Printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatDuration(h.result.Duration)))

	t.AppendHeader(table.Row{
		"Test", "Duration", "Status", "Message",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Message", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, tc := range h.result.Testcases {
		t.AppendRow(table.Row{
			tc.Name,
			formatDuration(tc.Duration),
			getResultString(tc.Status),
			firstLine(tc.Message),
		})
	}

	switch h.result.Summary.Status() {
	case types.StatusPass:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case types.StatusSkip:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("TOTAL: %d (run %s)", h.result.Summary.Total(), runID),
		formatDuration(h.result.Duration),
		getResultString(h.result.Summary.Status()),
		h.result.Summary.String(),
	})

	t.Render()
}

// getResultString returns a short marker for a testcase status
func getResultString(status types.Status) string {
	switch status {
	case types.StatusPass:
		return "✓ pass"
	case types.StatusSkip:
		return "- skip"
	case types.StatusError:
		return "! error"
	default:
		return "✗ fail"
	}
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
