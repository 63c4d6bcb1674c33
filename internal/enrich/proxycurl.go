package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NPierce1798/launchlens/internal/models"
)

const (
	maxAttempts  = 3
	retryBackoff = 300 * time.Millisecond
)

// checkResp reads the response body and returns an error if the status is not 2xx.
// On error it includes the upstream body for debugging.
func checkResp(resp *http.Response, service, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s %s returned %d: %s", service, path, resp.StatusCode, string(body))
}

// retryable reports whether a status code is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// ---------------------------------------------------------------------------
// ProxycurlClient — company enrichment (resolve domain, fetch full profile)
// ---------------------------------------------------------------------------

// ProxycurlClient calls the company-enrichment API over HTTP. Every failure
// is recoverable: ResolveAndEnrich reports "no enrichment available" as nil,
// never as an error.
type ProxycurlClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewProxycurlClient(baseURL, apiKey string, log *logrus.Logger) *ProxycurlClient {
	return &ProxycurlClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// ResolveAndEnrich maps a website to the provider's company record and
// fetches its full profile. A nil return means no enrichment is available
// for that website; callers must not treat it as fatal.
func (c *ProxycurlClient) ResolveAndEnrich(ctx context.Context, website string) *models.CompanyProfile {
	domain := bareDomain(website)
	if domain == "" {
		return nil
	}

	companyURL, err := c.resolveCompany(ctx, domain)
	if err != nil {
		c.log.Warnf("enrich: resolving %s: %v", domain, err)
		return nil
	}

	profile, err := c.fetchProfile(ctx, companyURL)
	if err != nil {
		c.log.Warnf("enrich: fetching profile for %s: %v", domain, err)
		return nil
	}
	return profile
}

// resolveCompany maps a bare domain to the provider's canonical company URL.
func (c *ProxycurlClient) resolveCompany(ctx context.Context, domain string) (string, error) {
	q := url.Values{"company_domain": {domain}}
	resp, err := c.get(ctx, "/api/linkedin/company/resolve", q)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "proxycurl", "/api/linkedin/company/resolve"); err != nil {
		return "", err
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("proxycurl resolve: decode: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("proxycurl resolve: no company found for %s", domain)
	}
	return result.URL, nil
}

// fetchProfile retrieves the full company profile, funding history and
// similar-company data included.
func (c *ProxycurlClient) fetchProfile(ctx context.Context, companyURL string) (*models.CompanyProfile, error) {
	q := url.Values{
		"url":                {companyURL},
		"resolve_numeric_id": {"true"},
		"categories":         {"include"},
		"funding_data":       {"include"},
		"extra":              {"include"},
		"use_cache":          {"if-present"},
		"fallback_to_cache":  {"on-error"},
	}
	resp, err := c.get(ctx, "/api/linkedin/company", q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "proxycurl", "/api/linkedin/company"); err != nil {
		return nil, err
	}

	var wire wireProfile
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("proxycurl profile: decode: %w", err)
	}
	return wire.normalize(), nil
}

// get issues a GET with bearer auth, retrying transient failures.
func (c *ProxycurlClient) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("proxycurl %s: %w", path, err)
		} else if retryable(resp.StatusCode) {
			lastErr = checkResp(resp, "proxycurl", path)
			resp.Body.Close()
		} else {
			return resp, nil
		}

		if attempt < maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// bareDomain strips protocol and path from a website URL.
func bareDomain(website string) string {
	d := strings.TrimPrefix(website, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.Index(d, "/"); i >= 0 {
		d = d[:i]
	}
	return strings.TrimSpace(d)
}

// ---------------------------------------------------------------------------
// Wire shapes — the provider's snake_case payload, normalized on the way out
// ---------------------------------------------------------------------------

type wireDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (d *wireDate) String() string {
	if d == nil || d.Year == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

type wireInvestor struct {
	Name string `json:"name"`
}

type wireFunding struct {
	AnnouncedDate *wireDate      `json:"announced_date"`
	InvestorList  []wireInvestor `json:"investor_list"`
	FundingStage  string         `json:"funding_stage"`
	MoneyRaised   string         `json:"money_raised"`
}

type wireUpdate struct {
	PostedOn    *wireDate `json:"posted_on"`
	Text        string    `json:"text"`
	ArticleLink string    `json:"article_link"`
}

type wireSimilar struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Location string `json:"location"`
	Link     string `json:"link"`
}

type wireHQ struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type wireExtra struct {
	CompanyType string `json:"company_type"`
}

type wireProfile struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Industry         string        `json:"industry"`
	CompanySizeLabel string        `json:"company_size_on_linkedin"`
	CompanyType      string        `json:"company_type"`
	HQ               *wireHQ       `json:"hq"`
	Extra            *wireExtra    `json:"extra"`
	FundingData      []wireFunding `json:"funding_data"`
	Updates          []wireUpdate  `json:"updates"`
	Categories       []string      `json:"categories"`
	Specialties      []string      `json:"specialties"`
	SimilarCompanies []wireSimilar `json:"similar_companies"`
}

func (w *wireProfile) normalize() *models.CompanyProfile {
	p := &models.CompanyProfile{
		Name:             w.Name,
		Description:      w.Description,
		Industry:         w.Industry,
		CompanySizeLabel: w.CompanySizeLabel,
		CompanyType:      w.CompanyType,
		FundingRounds:    []models.FundingRound{},
		Updates:          []models.CompanyUpdate{},
		Categories:       w.Categories,
		Specialties:      w.Specialties,
		SimilarCompanies: []models.SimilarCompany{},
	}
	if p.CompanyType == "" && w.Extra != nil {
		p.CompanyType = w.Extra.CompanyType
	}
	if w.HQ != nil {
		parts := []string{}
		if w.HQ.City != "" {
			parts = append(parts, w.HQ.City)
		}
		if w.HQ.Country != "" {
			parts = append(parts, w.HQ.Country)
		}
		p.Headquarters = strings.Join(parts, ", ")
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Specialties == nil {
		p.Specialties = []string{}
	}
	for _, f := range w.FundingData {
		round := models.FundingRound{
			AnnouncedOn:  f.AnnouncedDate.String(),
			FundingStage: f.FundingStage,
			MoneyRaised:  f.MoneyRaised,
			Investors:    []string{},
		}
		for _, inv := range f.InvestorList {
			round.Investors = append(round.Investors, inv.Name)
		}
		p.FundingRounds = append(p.FundingRounds, round)
	}
	for _, u := range w.Updates {
		p.Updates = append(p.Updates, models.CompanyUpdate{
			PostedOn:    u.PostedOn.String(),
			Text:        u.Text,
			ArticleLink: u.ArticleLink,
		})
	}
	for _, s := range w.SimilarCompanies {
		p.SimilarCompanies = append(p.SimilarCompanies, models.SimilarCompany{
			Name:     s.Name,
			Industry: s.Industry,
			Location: s.Location,
			Link:     s.Link,
		})
	}
	return p
}
