package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/askagent/askagent/internal/service"
)

// fakeWiki serves the two MediaWiki action=query shapes the client uses.
func fakeWiki(t *testing.T, hits []map[string]string, extracts map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("User-Agent") != "askagent-test" {
			t.Errorf("user agent = %q", r.Header.Get("User-Agent"))
		}
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("list") == "search":
			json.NewEncoder(w).Encode(map[string]any{
				"query": map[string]any{"search": hits},
			})
		case q.Get("prop") == "extracts":
			title := q.Get("titles")
			page := map[string]any{"title": title}
			if ex, ok := extracts[title]; ok {
				page["extract"] = ex
			} else {
				page["missing"] = ""
			}
			json.NewEncoder(w).Encode(map[string]any{
				"query": map[string]any{"pages": map[string]any{"1": page}},
			})
		case q.Get("meta") == "siteinfo":
			json.NewEncoder(w).Encode(map[string]any{"query": map[string]any{"general": map[string]any{}}})
		default:
			http.Error(w, "unexpected request", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newWiki(t *testing.T, url string, maxDoc int) *service.WikipediaService {
	t.Helper()
	svc, err := service.NewWikipediaService(service.WikipediaOptions{
		APIURL:         url,
		UserAgent:      "askagent-test",
		TopK:           3,
		MaxQueryLength: 300,
		MaxDocChars:    maxDoc,
	})
	if err != nil {
		t.Fatalf("NewWikipediaService: %v", err)
	}
	return svc
}

func TestWikipediaRun(t *testing.T) {
	srv, _ := fakeWiki(t,
		[]map[string]string{
			{"title": "Ada Lovelace", "snippet": "English <span class=\"searchmatch\">mathematician</span>"},
			{"title": "Analytical Engine", "snippet": "proposed <b>mechanical</b> computer"},
			{"title": "Charles Babbage", "snippet": ""},
		},
		map[string]string{
			"Ada Lovelace":    "Augusta Ada King was an English mathematician.",
			"Charles Babbage": "Charles Babbage was an English polymath.",
		},
	)
	svc := newWiki(t, srv.URL, 4000)

	out, err := svc.Run(context.Background(), "Ada Lovelace")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "Page: Ada Lovelace\nSummary: Augusta Ada King was an English mathematician." +
		"\n\nPage: Analytical Engine\nSummary: proposed mechanical computer" +
		"\n\nPage: Charles Babbage\nSummary: Charles Babbage was an English polymath."
	if out != want {
		t.Errorf("Run output mismatch\n got: %q\nwant: %q", out, want)
	}
}

func TestWikipediaNoResults(t *testing.T) {
	srv, _ := fakeWiki(t, nil, nil)
	svc := newWiki(t, srv.URL, 4000)

	out, err := svc.Run(context.Background(), "zzzzqqqq")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != service.NoWikipediaResult {
		t.Errorf("out = %q, want %q", out, service.NoWikipediaResult)
	}
}

func TestWikipediaEmptyQuerySkipsNetwork(t *testing.T) {
	srv, calls := fakeWiki(t, nil, nil)
	svc := newWiki(t, srv.URL, 4000)

	out, err := svc.Run(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != service.NoWikipediaResult {
		t.Errorf("out = %q", out)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no API calls, got %d", calls.Load())
	}
}

func TestWikipediaTruncatesOutput(t *testing.T) {
	srv, _ := fakeWiki(t,
		[]map[string]string{{"title": "Long", "snippet": ""}},
		map[string]string{"Long": strings.Repeat("word ", 200)},
	)
	svc := newWiki(t, srv.URL, 50)

	out, err := svc.Run(context.Background(), "long")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := len([]rune(out)); n != 50 {
		t.Errorf("output length = %d, want 50", n)
	}
}

func TestWikipediaAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	svc := newWiki(t, srv.URL, 4000)

	if _, err := svc.Run(context.Background(), "anything"); err == nil {
		t.Fatal("expected error on 503")
	}
	if err := svc.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error on 503")
	}
}

func TestWikipediaPing(t *testing.T) {
	srv, _ := fakeWiki(t, nil, nil)
	svc := newWiki(t, srv.URL, 4000)
	if err := svc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestNewWikipediaServiceRequiresURL(t *testing.T) {
	if _, err := service.NewWikipediaService(service.WikipediaOptions{}); err == nil {
		t.Fatal("expected error without api url")
	}
}
