package report

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/NPierce1798/launchlens/internal/llm"
	"github.com/NPierce1798/launchlens/internal/models"
)

// Enricher resolves a website to a company profile, or nil when no
// enrichment is available.
type Enricher interface {
	ResolveAndEnrich(ctx context.Context, website string) *models.CompanyProfile
}

// NewsFetcher returns recent articles about a company.
type NewsFetcher interface {
	GetNews(ctx context.Context, companyName string) ([]models.NewsItem, error)
}

// Summarizer condenses news text and extracts a sentiment score.
type Summarizer interface {
	SummarizeAndScoreSentiment(ctx context.Context, text string) (*llm.Summary, error)
}

// Builder runs the per-competitor enrichment pipeline.
type Builder struct {
	enricher   Enricher
	news       NewsFetcher
	summarizer Summarizer
	log        *logrus.Logger
}

func NewBuilder(enricher Enricher, news NewsFetcher, summarizer Summarizer, log *logrus.Logger) *Builder {
	return &Builder{enricher: enricher, news: news, summarizer: summarizer, log: log}
}

// BuildReports enriches every candidate concurrently. The result slice is
// index-aligned with the input regardless of completion order, and one
// candidate's failure degrades only that candidate's report.
func (b *Builder) BuildReports(ctx context.Context, candidates []models.CompetitorCandidate) []models.ReportData {
	results := make([]models.ReportData, len(candidates))

	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand models.CompetitorCandidate) {
			defer wg.Done()
			results[i] = b.buildOne(ctx, cand)
		}(i, cand)
	}
	wg.Wait()

	return results
}

// buildOne runs one candidate's pipeline: enrichment and news fetch in
// parallel, then summarization over the fetched news.
func (b *Builder) buildOne(ctx context.Context, cand models.CompetitorCandidate) models.ReportData {
	report := models.ReportData{Original: cand, News: []models.NewsItem{}}

	profileCh := make(chan *models.CompanyProfile, 1)
	go func() {
		if cand.Website == "" {
			profileCh <- nil
			return
		}
		profileCh <- b.enricher.ResolveAndEnrich(ctx, cand.Website)
	}()

	news, err := b.news.GetNews(ctx, cand.Name)
	if err != nil {
		b.log.Warnf("report %s: news fetch failed: %v", cand.Name, err)
	} else {
		if news != nil {
			report.News = news
		}
		summary, err := b.summarizer.SummarizeAndScoreSentiment(ctx, newsText(news))
		if err != nil {
			b.log.Warnf("report %s: summarize failed: %v", cand.Name, err)
		} else {
			report.Summary = summary.Summary
			report.Sentiment = summary.Sentiment
		}
	}

	report.ProxyData = <-profileCh
	return report
}

// newsText concatenates the articles into the model input.
func newsText(news []models.NewsItem) string {
	parts := make([]string, 0, len(news))
	for _, item := range news {
		parts = append(parts, fmt.Sprintf("%s - %s", item.Title, item.Content))
	}
	return strings.Join(parts, "\n\n")
}
