package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/auction-appraiser/internal/analysis"
	"github.com/jonathan/auction-appraiser/internal/types"
)

func TestPrintListings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintListings("Great Finds Auction", []types.Listing{
		{ID: "1", Title: "Oak Dresser", Price: "$25", Images: []string{"1_1.jpg", "1_2.jpg"}},
		{ID: "2", Title: "Brass Lamp", Price: "N/A"},
	})
	output := buf.String()

	assert.Contains(t, output, "SCRAPED LISTINGS")
	assert.Contains(t, output, "Great Finds Auction")
	assert.Contains(t, output, "Listings:  2")
	assert.Contains(t, output, "Images:    2")
	assert.Contains(t, output, "Oak Dresser")
}

func TestPrintListings_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintListings("x", nil)
	assert.Empty(t, buf.String())
}

func TestPrintAnalysisReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	r := &analysis.Report{
		Succeeded: 1,
		Exhausted: 1,
		Lost:      2,
		Results:   make([]types.AnalysisResult, 2),
		Batches: []analysis.BatchReport{
			{Index: 1, Size: 2, Outcome: &analysis.Outcome{State: analysis.StateSuccess, Model: "gemini-2.5-flash", Retries: 2, Escalations: 1}},
			{Index: 2, Size: 2, Outcome: &analysis.Outcome{State: analysis.StateExhausted}, Err: &analysis.BatchExhaustedError{
				Batch: 2, Size: 2, Attempts: []analysis.Attempt{{Model: "a", Err: errors.New("quota")}, {Model: "b", Err: errors.New("quota")}},
			}},
		},
	}

	p.PrintAnalysisReport(r)
	output := buf.String()

	assert.Contains(t, output, "ANALYSIS SUMMARY")
	assert.Contains(t, output, "(1 ok, 1 exhausted)")
	assert.Contains(t, output, "Lost:      2 listings")
	assert.Contains(t, output, "gemini-2.5-flash  retries:2  fallbacks:1")
	assert.Contains(t, output, "exhausted after 2 attempts")
}

func TestPrintAnalysisReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysisReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintTopDeals(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var results []types.AnalysisResult
	for i, v := range []float64{10, 900, 50, 40, 30, 20, 5} {
		results = append(results, types.AnalysisResult{
			ItemIdentification:   types.NewItemName("Item " + string(rune('A'+i))),
			EstimatedMarketValue: v,
			OriginalListing:      types.Listing{Price: "$1"},
		})
	}

	p.PrintTopDeals(results)
	output := buf.String()

	assert.Contains(t, output, "TOP DEALS")
	assert.Contains(t, output, "$900")
	assert.Less(t, strings.Index(output, "Item B"), strings.Index(output, "Item C"))
	assert.Contains(t, output, "... and 2 more items")
	assert.NotContains(t, output, "Item G")
}

func TestPrintArtifacts(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintArtifacts([]string{"design_Report_x.html", "index.html"}, "https://jane.github.io/reports/")

	output := buf.String()
	assert.Contains(t, output, "REPORT FILES")
	assert.Contains(t, output, "design_Report_x.html")
	assert.Contains(t, output, "https://jane.github.io/reports/")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
