package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func rssFeed(n int) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>search</title>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb,
			`<item><title>article %d</title><link>https://example.com/%d</link><description>body %d</description></item>`,
			i, i, i)
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

func TestGetNews_CapsAtFivePreservingOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Acme Rockets" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFeed(8)))
	}))
	defer srv.Close()

	c := NewNewsClient(srv.URL)
	items, err := c.GetNews(context.Background(), "Acme Rockets")
	if err != nil {
		t.Fatalf("GetNews() error = %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	for i, item := range items {
		if item.Title != fmt.Sprintf("article %d", i+1) {
			t.Errorf("items[%d].Title = %q, feed order not preserved", i, item.Title)
		}
	}
	if items[0].Content != "body 1" {
		t.Errorf("items[0].Content = %q, want description fallback", items[0].Content)
	}
}

func TestGetNews_EmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFeed(0)))
	}))
	defer srv.Close()

	c := NewNewsClient(srv.URL)
	items, err := c.GetNews(context.Background(), "Unknown Co")
	if err != nil {
		t.Fatalf("GetNews() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestGetNews_TransportFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewNewsClient(srv.URL)
	if _, err := c.GetNews(context.Background(), "Acme"); err == nil {
		t.Fatal("GetNews() error = nil, want error on upstream failure")
	}
}
