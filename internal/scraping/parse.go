package scraping

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/auction-appraiser/internal/config"
	"github.com/jonathan/auction-appraiser/internal/fetch"
)

// Detail is what a detail page yields before images are downloaded.
type Detail struct {
	Title     string
	Price     string
	ImageURLs []string
}

// GalleryLinks returns the absolute item links on a gallery page, in page order, without duplicates.
func GalleryLinks(html, pageURL, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %s: %w", pageURL, err)
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		abs := resolve(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})
	return links, nil
}

// HasNextPage reports whether the pager link with the given text exists and is enabled.
// The pager marks its last page by adding "disabled" to the link's parent.
func HasNextPage(html, linkText string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	link := doc.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == linkText
	}).First()
	if link.Length() == 0 {
		return false
	}
	return !link.Parent().HasClass("disabled")
}

// ParseDetail reads title, price and full-size image URLs from a rendered detail page.
func ParseDetail(html, pageURL string, sel config.Selectors) (*Detail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %s: %w", pageURL, err)
	}

	detail := &Detail{
		Title: singleLine(doc.Find(sel.Title).First().Text()),
		Price: "N/A",
	}
	if price := singleLine(doc.Find(sel.Price).First().Text()); price != "" {
		detail.Price = "$" + strings.TrimPrefix(price, "$")
	}

	attr := sel.ImageAttr
	if attr == "" {
		attr = "src"
	}
	doc.Find(sel.Images).Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr(attr)
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		if abs := resolve(base, src); abs != "" {
			detail.ImageURLs = append(detail.ImageURLs, abs)
		}
	})

	return detail, nil
}

// ImageFilename names the n-th image (1-based) of a listing after the second-to-last
// path segment of its URL, e.g. ".../lot/4521/oak-dresser" gives "4521_1.jpg".
func ImageFilename(listingURL string, n int) string {
	segment := "item"
	parts := strings.Split(strings.Trim(listingURL, "/"), "/")
	if len(parts) >= 2 && parts[len(parts)-2] != "" {
		segment = parts[len(parts)-2]
	}
	return fmt.Sprintf("%s_%d.jpg", segment, n)
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func singleLine(text string) string {
	return strings.ReplaceAll(fetch.CleanWhitespace(text), "\n", " ")
}
