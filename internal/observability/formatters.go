// Package observability provides boxed, human-readable output for the CLI commands.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-pathway/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for the CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(clip(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(clip(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to width runes, ending in "..." when cut.
func clip(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PrintPathway outputs each step of a pathway with its level and link.
func (p *Printer) PrintPathway(pathway *types.Pathway) {
	if pathway == nil {
		return
	}

	var sb strings.Builder
	if len(pathway.Steps) == 0 {
		sb.WriteString("No steps.")
	}
	for i, step := range pathway.Steps {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, step.Type, step.Name))
		if step.Level != "" {
			sb.WriteString(fmt.Sprintf("   Level: %s\n", step.Level))
		}
		if step.Description != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", step.Description))
		}
		if step.Link != "" {
			sb.WriteString(fmt.Sprintf("   → %s\n", step.Link))
		}
		if i < len(pathway.Steps)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(strings.ToUpper(pathway.Title), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCareers outputs recommended careers, most relevant first.
func (p *Printer) PrintCareers(careers []types.CareerSuggestion) {
	if len(careers) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(careers), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := careers[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, c.Title))
		if c.Salary != "" {
			sb.WriteString(fmt.Sprintf("    Salary:  %s\n", c.Salary))
		}
		if c.JobOutlook != "" {
			sb.WriteString(fmt.Sprintf("    Outlook: %s\n", c.JobOutlook))
		}
		if c.MatchReason != "" {
			sb.WriteString(fmt.Sprintf("    Why:     %s\n", c.MatchReason))
		}
	}
	if len(careers) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more careers", len(careers)-maxItemsToShow))
	}

	p.printBox("RECOMMENDED CAREERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCostEstimate outputs step costs, aid, and the ten-year return.
func (p *Printer) PrintCostEstimate(est *types.CostEstimate) {
	if est == nil {
		return
	}

	var sb strings.Builder
	for _, step := range est.Steps {
		if step.Cost > 0 {
			sb.WriteString(fmt.Sprintf("%-52s %s\n", clip(step.Name, 52), money(step.Cost)))
		}
	}
	sb.WriteString(fmt.Sprintf("%-52s %s\n\n", "Total cost", money(est.TotalCost)))

	sb.WriteString(fmt.Sprintf("Aid (EFC %s):\n", money(est.EFC)))
	sb.WriteString(fmt.Sprintf("  Pell grant   %s\n", money(est.Aid.PellGrant)))
	sb.WriteString(fmt.Sprintf("  Work-study   %s\n", money(est.Aid.WorkStudy)))
	sb.WriteString(fmt.Sprintf("  State grant  %s\n", money(est.Aid.StateGrant)))
	sb.WriteString(fmt.Sprintf("  Loans        %s\n", money(est.Aid.Loans)))
	sb.WriteString(fmt.Sprintf("Net cost       %s\n\n", money(est.NetCost)))

	sb.WriteString(fmt.Sprintf("Starting salary  %s\n", money(est.ROI.StartingSalary)))
	sb.WriteString(fmt.Sprintf("10-year earnings %s\n", money(est.ROI.TenYearTotal)))
	if est.NetCost > 0 {
		sb.WriteString(fmt.Sprintf("ROI %d%%, break-even in %d months", est.ROI.Percentage, est.ROI.BreakEvenMonths))
	} else {
		sb.WriteString("Fully covered by aid")
	}

	title := "COST ESTIMATE"
	if est.Career != "" {
		title += ": " + strings.ToUpper(est.Career)
	}
	p.printBox(title, sb.String())
}

// PrintResolution outputs the URL chosen for a program name.
func (p *Printer) PrintResolution(name string, resp types.ResolveProgramResponse) {
	source := "synthesized"
	if resp.Tier != "" {
		source = resp.Tier
	}
	content := fmt.Sprintf("Program: %s\nURL:     %s\nSource:  %s\nLinked:  %t", name, resp.URL, source, resp.Linked)
	p.printBox("PROGRAM LINK", content)
}

// PrintCatalogSummary outputs the entry count of each catalog tier.
func (p *Printer) PrintCatalogSummary(college string, tiers map[string]int, order []string) {
	var sb strings.Builder
	total := 0
	for _, name := range order {
		sb.WriteString(fmt.Sprintf("%-20s %4d\n", name, tiers[name]))
		total += tiers[name]
	}
	sb.WriteString(fmt.Sprintf("%-20s %4d", "total", total))
	p.printBox("CATALOG: "+strings.ToUpper(college), sb.String())
}

// money formats whole dollars with thousands separators.
func money(v float64) string {
	n := int64(v + 0.5)
	if v < 0 {
		n = int64(v - 0.5)
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	var out strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(d)
	}
	return sign + "$" + out.String()
}
