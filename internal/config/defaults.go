package config

import "github.com/jonathan/auction-appraiser/internal/llm"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Models:            llm.DefaultModels(),
		MaxRetries:        3,
		RetryDelaySeconds: 15,
		BatchSize:         2,
		BatchDelaySeconds: 5,
		MinWaitSeconds:    5,
		MaxWaitSeconds:    10,
		LogLevel:          "info",
		IndexPath:         "index.html",
		Sites: map[string]Site{
			"transitional": {
				Name:         "Transitional Design",
				Domain:       "auctions.transitionaldesign.net",
				ListingsFile: "transitional_listings.json",
				ImageDir:     "transitional_pics",
				DealsFile:    "transitional_deals.json",
				ReportPrefix: "trans",
				Selectors: Selectors{
					GalleryLinks: "div.galleryUnit h2.galleryTitle a, h2.title.inlinebidding a",
					NextPage:     "»",
					DetailReady:  "div.panel-body.description",
					Title:        "h3.detail__title",
					Price:        "span.detail__price--current span.NumberPart",
					Images:       "ul.es-slides img.img-thumbnail",
					ImageAttr:    "data-full-size-src",
				},
			},
			"greatfinds": {
				Name:         "Great Finds Auction",
				Domain:       "greatfindsauction.com",
				ListingsFile: "greatfinds_listings.json",
				ImageDir:     "greatfinds_pics",
				DealsFile:    "greatfinds_deals.json",
				ReportPrefix: "greatfinds",
				Selectors: Selectors{
					GalleryLinks: "div.galleryUnit h2.galleryTitle a, h2.title.inlinebidding a",
					NextPage:     "»",
					DetailReady:  "div.detail__sectionBody.description",
					Title:        "h1.detail__title span",
					Price:        "span.detail__price--current span.NumberPart",
					Images:       "div.detail__imageThumbnails a",
					ImageAttr:    "href",
				},
			},
		},
	}
}
