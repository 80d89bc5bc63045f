package scraping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/auction-appraiser/internal/analysis"
	"github.com/jonathan/auction-appraiser/internal/config"
	"github.com/jonathan/auction-appraiser/internal/fetch"
	"github.com/jonathan/auction-appraiser/internal/logging"
	"github.com/jonathan/auction-appraiser/internal/types"
)

// Session renders pages; *fetch.Browser is the production implementation.
type Session interface {
	Navigate(ctx context.Context, url, readySelector string) (string, error)
	ClickLinkText(ctx context.Context, linkText, readySelector string) (string, error)
}

// DownloadFunc saves the resource at url to dest.
type DownloadFunc func(ctx context.Context, url, dest string) error

// Options tunes a Scraper.
type Options struct {
	MinWait     time.Duration // Random wait between detail pages
	MaxWait     time.Duration
	Concurrency int // Parallel image downloads per listing
	MaxPages    int // Gallery page limit; 0 means no limit
	Download    DownloadFunc
	Sleep       analysis.SleepFunc // analysis.Sleep when nil
}

// DefaultOptions returns the pacing used against live sites.
func DefaultOptions() Options {
	return Options{
		MinWait:     5 * time.Second,
		MaxWait:     10 * time.Second,
		Concurrency: 4,
	}
}

// Scraper walks one site's gallery and detail pages.
type Scraper struct {
	session Session
	site    config.Site
	opts    Options
	logger  *log.Logger
}

// New creates a Scraper for site.
func New(session Session, site config.Site, opts Options, logger *log.Logger) *Scraper {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.MaxWait < opts.MinWait {
		opts.MaxWait = opts.MinWait
	}
	if opts.Download == nil {
		opts.Download = func(ctx context.Context, url, dest string) error {
			_, err := fetch.Download(ctx, url, dest, nil)
			return err
		}
	}
	if opts.Sleep == nil {
		opts.Sleep = analysis.Sleep
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scraper{session: session, site: site, opts: opts, logger: logger}
}

// Run scrapes every listing reachable from galleryURL. Listings whose page fails are skipped.
func (s *Scraper) Run(ctx context.Context, galleryURL string) ([]types.Listing, error) {
	if err := os.MkdirAll(s.site.ImageDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", s.site.ImageDir, err)
	}

	links, err := s.CollectLinks(ctx, galleryURL)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, ErrNoListings
	}
	s.logger.Info("found items, fetching details", "site", s.site.Name, "items", len(links))

	listings := make([]types.Listing, 0, len(links))
	for i, link := range links {
		s.logger.Info("processing listing", "n", i+1, "of", len(links), "url", link)

		listing, err := s.ScrapeListing(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return listings, ctx.Err()
			}
			s.logger.Warn("skipping listing", "url", link, "err", err)
			continue
		}
		listings = append(listings, *listing)

		if i < len(links)-1 {
			if err := s.opts.Sleep(ctx, s.randomWait()); err != nil {
				return listings, err
			}
		}
	}

	return listings, nil
}

// CollectLinks pages through the gallery until the "next" control is missing or disabled.
func (s *Scraper) CollectLinks(ctx context.Context, galleryURL string) ([]string, error) {
	sel := s.site.Selectors

	html, err := s.session.Navigate(ctx, galleryURL, sel.GalleryLinks)
	if err != nil {
		return nil, &Error{URL: galleryURL, Message: "failed to load gallery", Cause: err}
	}

	var links []string
	seen := make(map[string]bool)
	for page := 1; ; page++ {
		s.logger.Debug("scanning gallery page", "page", page)

		pageLinks, err := GalleryLinks(html, galleryURL, sel.GalleryLinks)
		if err != nil {
			return nil, &Error{URL: galleryURL, Message: fmt.Sprintf("failed to read gallery page %d", page), Cause: err}
		}
		for _, link := range pageLinks {
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}

		if !HasNextPage(html, sel.NextPage) || (s.opts.MaxPages > 0 && page >= s.opts.MaxPages) {
			return links, nil
		}
		html, err = s.session.ClickLinkText(ctx, sel.NextPage, sel.GalleryLinks)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("could not open next gallery page, keeping links found so far", "page", page+1, "err", err)
			return links, nil
		}
	}
}

// ScrapeListing renders one detail page and downloads its images.
func (s *Scraper) ScrapeListing(ctx context.Context, listingURL string) (*types.Listing, error) {
	html, err := s.session.Navigate(ctx, listingURL, s.site.Selectors.DetailReady)
	if err != nil {
		return nil, &Error{URL: listingURL, Message: "failed to load detail page", Cause: err}
	}

	detail, err := ParseDetail(html, listingURL, s.site.Selectors)
	if err != nil {
		return nil, &Error{URL: listingURL, Message: "failed to parse detail page", Cause: err}
	}

	pics, err := s.downloadImages(ctx, listingURL, detail.ImageURLs)
	if err != nil {
		return nil, err
	}

	return &types.Listing{
		ID:     listingURL,
		Title:  detail.Title,
		Price:  detail.Price,
		URL:    listingURL,
		Images: pics,
	}, nil
}

// downloadImages fetches images concurrently and returns the saved filenames in page order.
// Failed downloads are logged and left out.
func (s *Scraper) downloadImages(ctx context.Context, listingURL string, imageURLs []string) ([]string, error) {
	saved := make([]string, len(imageURLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, imageURL := range imageURLs {
		name := ImageFilename(listingURL, i+1)
		g.Go(func() error {
			dest := filepath.Join(s.site.ImageDir, name)
			if err := s.opts.Download(gctx, imageURL, dest); err != nil {
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("image download failed", "url", imageURL, "err", err)
				return nil
			}
			saved[i] = name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pics := make([]string, 0, len(saved))
	for _, name := range saved {
		if name != "" {
			pics = append(pics, name)
		}
	}
	return pics, nil
}

func (s *Scraper) randomWait() time.Duration {
	spread := s.opts.MaxWait - s.opts.MinWait
	if spread <= 0 {
		return s.opts.MinWait
	}
	return s.opts.MinWait + rand.N(spread)
}

// WriteListings saves listings as an indented JSON array.
func WriteListings(path string, listings []types.Listing) error {
	if listings == nil {
		listings = []types.Listing{}
	}
	data, err := json.MarshalIndent(listings, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode listings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write listings file %s: %w", path, err)
	}
	return nil
}
