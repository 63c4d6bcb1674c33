package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestBareDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://acme.io", "acme.io"},
		{"http://acme.io/about/team", "acme.io"},
		{"acme.io/pricing", "acme.io"},
		{"acme.io", "acme.io"},
		{"", ""},
	}
	for _, c := range cases {
		if got := bareDomain(c.in); got != c.want {
			t.Errorf("bareDomain(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveAndEnrich_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/linkedin/company/resolve":
			if r.URL.Query().Get("company_domain") != "acme.io" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"url":"https://www.linkedin.com/company/acme"}`))
		case "/api/linkedin/company":
			w.Write([]byte(`{
				"name": "Acme Inc",
				"industry": "Software",
				"company_size_on_linkedin": "51-200",
				"hq": {"city": "Berlin", "country": "DE"},
				"extra": {"company_type": "PRIVATELY_HELD"},
				"funding_data": [{
					"announced_date": {"day": 3, "month": 7, "year": 2023},
					"funding_stage": "Series A",
					"money_raised": "12000000",
					"investor_list": [{"name": "Fund One"}]
				}],
				"categories": ["legal-tech"],
				"similar_companies": [{"name": "Beta", "industry": "Software"}]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewProxycurlClient(srv.URL, "test-key", quietLogger())
	profile := c.ResolveAndEnrich(context.Background(), "https://acme.io/about")
	if profile == nil {
		t.Fatal("ResolveAndEnrich() = nil, want profile")
	}
	if profile.Name != "Acme Inc" || profile.CompanySizeLabel != "51-200" {
		t.Errorf("profile = %+v", profile)
	}
	if profile.CompanyType != "PRIVATELY_HELD" {
		t.Errorf("company type = %q, want extra fallback", profile.CompanyType)
	}
	if profile.Headquarters != "Berlin, DE" {
		t.Errorf("headquarters = %q", profile.Headquarters)
	}
	if len(profile.FundingRounds) != 1 || profile.FundingRounds[0].AnnouncedOn != "2023-07-03" {
		t.Errorf("funding = %+v", profile.FundingRounds)
	}
	if len(profile.SimilarCompanies) != 1 || profile.SimilarCompanies[0].Name != "Beta" {
		t.Errorf("similar = %+v", profile.SimilarCompanies)
	}
}

func TestResolveAndEnrich_UnresolvableDomainIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewProxycurlClient(srv.URL, "k", quietLogger())
	if profile := c.ResolveAndEnrich(context.Background(), "https://nobody.example"); profile != nil {
		t.Errorf("ResolveAndEnrich() = %+v, want nil", profile)
	}
}

func TestResolveAndEnrich_TransportFailureIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewProxycurlClient(srv.URL, "k", quietLogger())
	if profile := c.ResolveAndEnrich(context.Background(), "https://acme.io"); profile != nil {
		t.Errorf("ResolveAndEnrich() = %+v, want nil", profile)
	}
}

func TestResolveAndEnrich_EmptyWebsiteIsNil(t *testing.T) {
	c := NewProxycurlClient("http://unused.example", "k", quietLogger())
	if profile := c.ResolveAndEnrich(context.Background(), ""); profile != nil {
		t.Errorf("ResolveAndEnrich() = %+v, want nil", profile)
	}
}

func TestGet_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"url":"https://www.linkedin.com/company/acme"}`))
	}))
	defer srv.Close()

	c := NewProxycurlClient(srv.URL, "k", quietLogger())
	got, err := c.resolveCompany(context.Background(), "acme.io")
	if err != nil {
		t.Fatalf("resolveCompany() error = %v", err)
	}
	if got != "https://www.linkedin.com/company/acme" {
		t.Errorf("resolveCompany() = %q", got)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewProxycurlClient(srv.URL, "k", quietLogger())
	if _, err := c.resolveCompany(context.Background(), "acme.io"); err == nil {
		t.Fatal("resolveCompany() error = nil, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
