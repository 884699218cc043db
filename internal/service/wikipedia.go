package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const NoWikipediaResult = "No good Wikipedia Search Result was found"

// WikipediaOptions configures a WikipediaService
type WikipediaOptions struct {
	APIURL         string
	UserAgent      string
	TopK           int
	MaxQueryLength int
	MaxDocChars    int
	RatePerSecond  float64
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// WikipediaService queries the MediaWiki action API for page summaries.
// One instance is shared by all requests; its limiter paces outbound calls.
type WikipediaService struct {
	apiURL         string
	userAgent      string
	topK           int
	maxQueryLength int
	maxDocChars    int
	client         *http.Client
	limiter        *rate.Limiter
}

// WikipediaPage is a single search hit with its summary
type WikipediaPage struct {
	Title   string
	Summary string
}

func NewWikipediaService(opts WikipediaOptions) (*WikipediaService, error) {
	if opts.APIURL == "" {
		return nil, fmt.Errorf("wikipedia api url is required")
	}
	if _, err := url.Parse(opts.APIURL); err != nil {
		return nil, fmt.Errorf("wikipedia api url: %w", err)
	}
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), max(1, int(opts.RatePerSecond)))
	}

	return &WikipediaService{
		apiURL:         opts.APIURL,
		userAgent:      opts.UserAgent,
		topK:           opts.TopK,
		maxQueryLength: opts.MaxQueryLength,
		maxDocChars:    opts.MaxDocChars,
		client:         client,
		limiter:        limiter,
	}, nil
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Missing *string `json:"missing,omitempty"`
		} `json:"pages"`
	} `json:"query"`
}

// Run searches Wikipedia and returns the formatted summaries of the top hits,
// or NoWikipediaResult when nothing matched.
func (s *WikipediaService) Run(ctx context.Context, query string) (string, error) {
	pages, err := s.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return NoWikipediaResult, nil
	}

	docs := make([]string, 0, len(pages))
	for _, p := range pages {
		docs = append(docs, fmt.Sprintf("Page: %s\nSummary: %s", p.Title, p.Summary))
	}
	out := strings.Join(docs, "\n\n")
	if s.maxDocChars > 0 {
		out = truncateRunes(out, s.maxDocChars)
	}
	return out, nil
}

// Search returns up to topK pages for the query. Summaries are fetched
// concurrently; page order follows search relevance.
func (s *WikipediaService) Search(ctx context.Context, query string) ([]WikipediaPage, error) {
	query = strings.TrimSpace(query)
	if s.maxQueryLength > 0 {
		query = truncateRunes(query, s.maxQueryLength)
	}
	if query == "" {
		return nil, nil
	}

	var sr searchResponse
	err := s.get(ctx, url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {fmt.Sprintf("%d", s.topK)},
		"format":   {"json"},
		"utf8":     {"1"},
	}, &sr)
	if err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}

	hits := sr.Query.Search
	if len(hits) > s.topK {
		hits = hits[:s.topK]
	}
	pages := make([]WikipediaPage, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	for i, hit := range hits {
		g.Go(func() error {
			summary, err := s.summary(gctx, hit.Title)
			if err != nil {
				return fmt.Errorf("wikipedia summary %q: %w", hit.Title, err)
			}
			if summary == "" {
				summary = snippetText(hit.Snippet)
			}
			pages[i] = WikipediaPage{Title: hit.Title, Summary: summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Drop hits that produced neither an extract nor a snippet.
	out := pages[:0]
	for _, p := range pages {
		if p.Summary != "" {
			out = append(out, p)
		}
	}
	log.Debug().Str("query", query).Int("pages", len(out)).Msg("wikipedia search")
	return out, nil
}

// Ping checks that the API answers a trivial siteinfo query.
func (s *WikipediaService) Ping(ctx context.Context) error {
	var v map[string]any
	return s.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"siteinfo"},
		"format": {"json"},
	}, &v)
}

func (s *WikipediaService) summary(ctx context.Context, title string) (string, error) {
	var er extractResponse
	err := s.get(ctx, url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"redirects":   {"1"},
		"titles":      {title},
		"format":      {"json"},
	}, &er)
	if err != nil {
		return "", err
	}
	for _, p := range er.Query.Pages {
		if p.Missing != nil {
			continue
		}
		return strings.TrimSpace(p.Extract), nil
	}
	return "", nil
}

func (s *WikipediaService) get(ctx context.Context, params url.Values, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("wikipedia api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// snippetText converts a search snippet (HTML with searchmatch spans) to text
func snippetText(snippet string) string {
	if snippet == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
