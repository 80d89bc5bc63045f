package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/auction-appraiser/internal/types"
)

// TimestampLayout is the date-time part of report file names.
const TimestampLayout = "2006-01-02_15-04-05"

//go:embed templates/*.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

// Artifacts are the files one report run produced.
type Artifacts struct {
	JSONPath string // Empty when only HTML was rendered
	HTMLPath string
	Count    int
}

// Files returns the artifact paths that exist, for publishing.
func (a *Artifacts) Files() []string {
	var files []string
	if a.HTMLPath != "" {
		files = append(files, a.HTMLPath)
	}
	if a.JSONPath != "" {
		files = append(files, a.JSONPath)
	}
	return files
}

// Options controls where and under what name a report is written.
type Options struct {
	Dir          string    // Output directory; "." when empty
	SitePrefix   string    // Site's configured report prefix, e.g. "trans"
	Title        string    // HTML page title
	Now          time.Time // Timestamp used in file names; time.Now when zero
	SkipJSONCopy bool      // Regenerate mode renders HTML only
}

// row is one table line and one entry of the page's JSON data island.
type row struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Display  string  `json:"display"`
	URL      string  `json:"url"`
	Search   string  `json:"search"`
}

type page struct {
	Title     string
	Generated string
	Rows      []row
}

// Sort returns a copy of results ordered by estimated market value, highest first.
// Equal values keep their input order.
func Sort(results []types.AnalysisResult) []types.AnalysisResult {
	sorted := append([]types.AnalysisResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EstimatedMarketValue > sorted[j].EstimatedMarketValue
	})
	return sorted
}

// FilePrefix maps a site's report prefix to the prefix used in published file names.
func FilePrefix(sitePrefix string) string {
	switch sitePrefix {
	case "trans":
		return "design"
	case "greatfinds":
		return "great"
	default:
		return sitePrefix
	}
}

// FileNames returns the sorted-JSON and HTML report names for a run at t.
func FileNames(sitePrefix string, t time.Time) (jsonName, htmlName string) {
	prefix := FilePrefix(sitePrefix)
	stamp := t.Format(TimestampLayout)
	return fmt.Sprintf("%s_%s.json", prefix, stamp), fmt.Sprintf("%s_Report_%s.html", prefix, stamp)
}

// Generate sorts results and writes the JSON copy and the HTML report.
func Generate(results []types.AnalysisResult, opts Options) (*Artifacts, error) {
	if opts.SitePrefix == "" {
		return nil, &Error{Path: opts.Dir, Message: "site prefix is required"}
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	title := opts.Title
	if title == "" {
		title = "Auction Item Analysis"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &Error{Path: dir, Message: "failed to create output directory", Cause: err}
	}

	sorted := Sort(results)
	jsonName, htmlName := FileNames(opts.SitePrefix, now)
	artifacts := &Artifacts{Count: len(sorted)}

	if !opts.SkipJSONCopy {
		path := filepath.Join(dir, jsonName)
		data, err := json.MarshalIndent(sorted, "", "    ")
		if err != nil {
			return nil, &Error{Path: path, Message: "failed to encode results", Cause: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, &Error{Path: path, Message: "failed to write sorted results", Cause: err}
		}
		artifacts.JSONPath = path
	}

	path := filepath.Join(dir, htmlName)
	html, err := RenderHTML(sorted, title, now)
	if err != nil {
		return nil, &Error{Path: path, Message: "failed to render report", Cause: err}
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return nil, &Error{Path: path, Message: "failed to write report", Cause: err}
	}
	artifacts.HTMLPath = path

	return artifacts, nil
}

// RenderHTML renders results, in the given order, as the sortable report page.
func RenderHTML(results []types.AnalysisResult, title string, generated time.Time) ([]byte, error) {
	p := page{
		Title:     title,
		Generated: generated.Format("2006-01-02 15:04"),
		Rows:      make([]row, 0, len(results)),
	}
	for _, r := range results {
		name := r.ItemIdentification.DisplayName()
		p.Rows = append(p.Rows, row{
			Name:     name,
			Category: Category(name),
			Value:    r.EstimatedMarketValue,
			Display:  FormatUSD(r.EstimatedMarketValue),
			URL:      r.OriginalListing.URL,
			Search:   "https://www.google.com/search?q=" + url.QueryEscape(name),
		})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatUSD formats a value as whole dollars with thousands separators, e.g. "$1,250".
func FormatUSD(v float64) string {
	digits := strconv.FormatInt(int64(v+0.5), 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return "$" + b.String()
}
