// Package reporting renders aggregated run results for humans and CI
// systems. The text renderer writes detail banners for every non-passing
// testcase followed by a one-line summary; the XML renderer produces a
// JUnit-style report file.
package reporting

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

const separatorWidth = 70

type banner struct {
	label string
	color text.Color
	rank  int
}

var banners = map[types.Status]banner{
	types.StatusFail:  {label: "FAIL", color: text.FgRed, rank: 0},
	types.StatusError: {label: "ERROR", color: text.FgYellow, rank: 1},
	types.StatusSkip:  {label: "SKIP", color: text.FgBlue, rank: 2},
}

// RenderText writes the run report to w. Passing testcases contribute only
// to the tally; failures, errors and skips each get a banner with the
// captured detail, grouped in that order but otherwise kept in run order.
func RenderText(w io.Writer, rs *types.ResultSet) {
	cases := make([]types.Outcome, 0, len(rs.Testcases))
	for _, tc := range rs.Testcases {
		if tc.Status != types.StatusPass {
			cases = append(cases, tc)
		}
	}
	sort.SliceStable(cases, func(i, j int) bool {
		return banners[cases[i].Status].rank < banners[cases[j].Status].rank
	})

	for _, tc := range cases {
		b := banners[tc.Status]
		header := fmt.Sprintf("%s: %s", b.label, tc.Name)
		fmt.Fprintln(w, b.color.Sprint(strings.Repeat("=", len(header))))
		fmt.Fprintln(w, b.color.Sprint(header))
		fmt.Fprintln(w, b.color.Sprint(strings.Repeat("-", len(header))))
		detail := tc.Detail
		if detail == "" {
			detail = tc.Message
		}
		if detail != "" {
			fmt.Fprintln(w, strings.TrimRight(detail, "\n"))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("-", separatorWidth))
	fmt.Fprintf(w, "Ran %d tests in %ss\n\n", rs.Summary.Total(), types.FormatSeconds(rs.Duration))
	fmt.Fprintln(w, summaryColor(rs.Summary).Sprint(rs.Summary.String()))
}

func summaryColor(s types.Summary) text.Color {
	switch s.Status() {
	case types.StatusPass:
		return text.FgGreen
	case types.StatusSkip:
		return text.FgYellow
	default:
		return text.FgRed
	}
}
