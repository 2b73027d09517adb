// Package scrape implements the municipal-directory importer: it fetches the
// city's facility listing pages and extracts one row per facility, keyed by
// the detail page URL so re-imports refresh rather than duplicate.
//
// The parser is deliberately tolerant: municipal CMS markup drifts between
// site updates, so every field except the name and detail URL is optional and
// selector misses yield empty strings instead of errors.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/kosodate-map/go-kosodate-backend/internal/config"
)

// FacilityRow is one scraped directory entry, ready for upsert.
type FacilityRow struct {
	Name          string
	WardName      string
	Address       string
	Phone         string
	WebsiteURL    string
	FacilityType  string
	DetailPageURL string
}

// listPath is the facility listing page under the municipal site root.
const listPath = "/facility/list.html"

// Fetcher downloads municipal pages with retry and politeness delay.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration
	maxRetries int
}

// NewFetcher builds a Fetcher from the importer configuration.
func NewFetcher(cfg config.ScrapeConfig) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		delay:      cfg.Delay,
		maxRetries: cfg.MaxRetries,
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func (f *Fetcher) WithHTTPClient(h *http.Client) *Fetcher {
	f.httpClient = h
	return f
}

// FetchFacilities downloads and parses the facility listing page.
func (f *Fetcher) FetchFacilities(ctx context.Context) ([]FacilityRow, error) {
	listURL := f.baseURL + listPath
	body, err := f.get(ctx, listURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	base, err := url.Parse(listURL)
	if err != nil {
		return nil, err
	}
	return ParseFacilityList(body, base)
}

// get fetches one URL, retrying transient failures with a linear backoff
// (attempt × delay). Non-2xx statuses count as failures; the municipal site
// intermittently answers 503 under load.
func (f *Fetcher) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * f.delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("url", rawURL).Int("attempt", attempt).Msg("fetch failed")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
			log.Warn().Str("url", rawURL).Int("status", resp.StatusCode).Int("attempt", attempt).Msg("fetch failed")
			continue
		}
		return resp.Body, nil
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", f.maxRetries, lastErr)
}

// ParseFacilityList extracts facility rows from a listing page. Relative
// detail links are resolved against base. Entries without a name are skipped.
func ParseFacilityList(r io.Reader, base *url.URL) ([]FacilityRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var rows []FacilityRow
	doc.Find("ul.facility-list > li, table.facility-list tbody tr").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a").First()
		name := clean(link.Text())
		if name == "" {
			name = clean(s.Find(".facility-name").Text())
		}
		if name == "" {
			return
		}

		row := FacilityRow{
			Name:         name,
			WardName:     clean(s.Find(".ward, .area").First().Text()),
			Address:      clean(s.Find(".address").Text()),
			Phone:        clean(s.Find(".tel, .phone").First().Text()),
			FacilityType: clean(s.Find(".category, .type").First().Text()),
		}
		if href, ok := link.Attr("href"); ok {
			row.DetailPageURL = resolveURL(base, href)
		}
		if ext, ok := s.Find("a.external, .website a").First().Attr("href"); ok {
			row.WebsiteURL = resolveURL(base, ext)
		}
		rows = append(rows, row)
	})
	return rows, nil
}

// clean trims surrounding whitespace including full-width spaces.
func clean(s string) string {
	return strings.Trim(strings.TrimSpace(s), "　")
}

// resolveURL resolves href against base, returning href unchanged when it
// does not parse.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
