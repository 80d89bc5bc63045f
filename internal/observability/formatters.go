// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/auction-appraiser/internal/analysis"
	"github.com/jonathan/auction-appraiser/internal/report"
	"github.com/jonathan/auction-appraiser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintListings outputs a summary of freshly scraped listings.
func (p *Printer) PrintListings(site string, listings []types.Listing) {
	if len(listings) == 0 {
		return
	}

	var sb strings.Builder
	images := 0
	for _, l := range listings {
		images += len(l.Images)
	}
	sb.WriteString(fmt.Sprintf("Site:      %s\n", site))
	sb.WriteString(fmt.Sprintf("Listings:  %d\n", len(listings)))
	sb.WriteString(fmt.Sprintf("Images:    %d\n\n", images))

	count := min(len(listings), maxItemsToShow)
	for i := 0; i < count; i++ {
		l := listings[i]
		sb.WriteString(fmt.Sprintf("• %s  %s\n", truncate(l.Title, 40), l.Price))
	}
	if len(listings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(listings)-maxItemsToShow))
	}

	p.printBox("SCRAPED LISTINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysisReport outputs per-batch outcomes of an analysis run.
func (p *Printer) PrintAnalysisReport(r *analysis.Report) {
	if r == nil || len(r.Batches) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Batches:   %d (%d ok, %d exhausted)\n", len(r.Batches), r.Succeeded, r.Exhausted))
	sb.WriteString(fmt.Sprintf("Results:   %d\n", len(r.Results)))
	if r.Lost > 0 {
		sb.WriteString(fmt.Sprintf("Lost:      %d listings\n", r.Lost))
	}
	sb.WriteString("\n")

	for _, b := range r.Batches {
		if b.Err != nil {
			sb.WriteString(fmt.Sprintf("✗ #%d  %d items  exhausted after %d attempts\n", b.Index, b.Size, len(b.Err.Attempts)))
			continue
		}
		line := fmt.Sprintf("✓ #%d  %d items  %s", b.Index, b.Size, b.Outcome.Model)
		if b.Outcome.Retries > 0 {
			line += fmt.Sprintf("  retries:%d", b.Outcome.Retries)
		}
		if b.Outcome.Escalations > 0 {
			line += fmt.Sprintf("  fallbacks:%d", b.Outcome.Escalations)
		}
		sb.WriteString(line + "\n")
	}

	p.printBox("ANALYSIS SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTopDeals outputs the highest valued items.
func (p *Printer) PrintTopDeals(results []types.AnalysisResult) {
	if len(results) == 0 {
		return
	}

	sorted := report.Sort(results)
	var sb strings.Builder

	count := min(len(sorted), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := sorted[i]
		name := r.ItemIdentification.DisplayName()
		sb.WriteString(fmt.Sprintf("#%d  %-36s %9s\n", i+1, truncate(name, 36), report.FormatUSD(r.EstimatedMarketValue)))
		sb.WriteString(fmt.Sprintf("    %s · bid %s\n", report.Category(name), r.OriginalListing.Price))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(sorted) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more items", len(sorted)-maxItemsToShow))
	}

	p.printBox("TOP DEALS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArtifacts lists the files a run produced.
func (p *Printer) PrintArtifacts(files []string, pagesURL string) {
	if len(files) == 0 {
		return
	}

	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(fmt.Sprintf("• %s\n", f))
	}
	if pagesURL != "" {
		sb.WriteString(fmt.Sprintf("\nArchive: %s\n", pagesURL))
	}

	p.printBox("REPORT FILES", strings.TrimSuffix(sb.String(), "\n"))
}
