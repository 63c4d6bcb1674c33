package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/NPierce1798/launchlens/internal/models"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastUser = user
	return f.response, f.err
}

func newTestAdapter(response string, err error) (*Adapter, *fakeCompleter) {
	fc := &fakeCompleter{response: response, err: err}
	return NewAdapter(fc, logrus.New()), fc
}

const fullBundle = `{
	"insights": {
		"problemStatement":  {"insights": "a"},
		"solution":          {"insights": "b"},
		"targetCustomer":    {"insights": "c"},
		"features":          {"insights": "d"},
		"userJourney":       {"insights": "e"},
		"timelineEstimate":  {"insights": "f"},
		"budgetEstimate":    {"insights": "g"},
		"riskFactors":       {"insights": "h"},
		"recommendations":   {"insights": "i"},
		"overallAssessment": {"insights": "j"}
	}
}`

func TestFindRelevantCompanies_ParsesCandidates(t *testing.T) {
	a, fc := newTestAdapter("```json\n[{\"name\":\"Acme\",\"website\":\"https://acme.io\"}]\n```", nil)

	candidates, err := a.FindRelevantCompanies(context.Background(), IdeaContext{Idea: "AI contract reviewer"})
	if err != nil {
		t.Fatalf("FindRelevantCompanies() error = %v", err)
	}
	if len(candidates) != 1 || candidates[0].Name != "Acme" {
		t.Errorf("candidates = %+v", candidates)
	}
	if !strings.Contains(fc.lastUser, "AI contract reviewer") {
		t.Errorf("prompt missing idea: %q", fc.lastUser)
	}
}

func TestFindRelevantCompanies_MalformedOutput(t *testing.T) {
	a, _ := newTestAdapter("I could not find any companies, sorry.", nil)

	_, err := a.FindRelevantCompanies(context.Background(), IdeaContext{Idea: "x"})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("error = %v, want ErrMalformedOutput", err)
	}
}

func TestSummarize_ExtractsSentiment(t *testing.T) {
	a, _ := newTestAdapter("Acme had a strong quarter.\n\nSentiment Score: 87", nil)

	s, err := a.SummarizeAndScoreSentiment(context.Background(), "some news")
	if err != nil {
		t.Fatalf("SummarizeAndScoreSentiment() error = %v", err)
	}
	if s.Sentiment == nil || *s.Sentiment != 87 {
		t.Errorf("sentiment = %v, want 87", s.Sentiment)
	}
}

func TestSummarize_CaseInsensitiveScoreLine(t *testing.T) {
	a, _ := newTestAdapter("Mixed coverage. sentiment score - 42", nil)

	s, err := a.SummarizeAndScoreSentiment(context.Background(), "some news")
	if err != nil {
		t.Fatalf("SummarizeAndScoreSentiment() error = %v", err)
	}
	if s.Sentiment == nil || *s.Sentiment != 42 {
		t.Errorf("sentiment = %v, want 42", s.Sentiment)
	}
}

func TestSummarize_NoScoreFallsBackToNil(t *testing.T) {
	a, _ := newTestAdapter("Acme had a rough week but recovered.", nil)

	s, err := a.SummarizeAndScoreSentiment(context.Background(), "some news")
	if err != nil {
		t.Fatalf("SummarizeAndScoreSentiment() error = %v", err)
	}
	if s.Sentiment != nil {
		t.Errorf("sentiment = %v, want nil", *s.Sentiment)
	}
	if s.Summary == "" {
		t.Error("summary should survive a failed sentiment extraction")
	}
}

func TestSummarize_OutOfRangeScoreIgnored(t *testing.T) {
	a, _ := newTestAdapter("Sentiment Score: 870", nil)

	s, err := a.SummarizeAndScoreSentiment(context.Background(), "some news")
	if err != nil {
		t.Fatalf("SummarizeAndScoreSentiment() error = %v", err)
	}
	if s.Sentiment != nil {
		t.Errorf("sentiment = %v, want nil for out-of-range score", *s.Sentiment)
	}
}

func TestGenerateMVPInsights_AllSections(t *testing.T) {
	a, _ := newTestAdapter(fullBundle, nil)

	bundle, err := a.GenerateMVPInsights(context.Background(), models.PlanData{})
	if err != nil {
		t.Fatalf("GenerateMVPInsights() error = %v", err)
	}
	if bundle.Insights.OverallAssessment.Insights != "j" {
		t.Errorf("overallAssessment = %+v", bundle.Insights.OverallAssessment)
	}
}

func TestGenerateMVPInsights_MissingSectionIsFatal(t *testing.T) {
	partial := strings.Replace(fullBundle, `"budgetEstimate":    {"insights": "g"},`, "", 1)
	a, _ := newTestAdapter(partial, nil)

	_, err := a.GenerateMVPInsights(context.Background(), models.PlanData{})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("error = %v, want ErrMalformedOutput", err)
	}
	if err != nil && !strings.Contains(err.Error(), "budgetEstimate") {
		t.Errorf("error should name the missing section: %v", err)
	}
}

func TestGenerateMVPInsights_InvalidJSONIsFatal(t *testing.T) {
	a, _ := newTestAdapter("not json at all", nil)

	_, err := a.GenerateMVPInsights(context.Background(), models.PlanData{})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("error = %v, want ErrMalformedOutput", err)
	}
}

func TestBuildInsightsPrompt(t *testing.T) {
	plan := models.PlanData{
		ProblemStatement: "manual contract review",
		Features: []models.Feature{
			{Name: "clause search", Priority: models.PriorityMustHave},
			{Name: "redline export", Priority: models.PriorityShouldHave},
			{Name: "audit trail", Priority: models.PriorityMustHave},
		},
		UserJourney: []models.JourneyStep{
			{Step: "upload"}, {Step: "review"}, {Step: "export"},
		},
	}

	prompt := buildInsightsPrompt(plan)
	if !strings.Contains(prompt, "3 total, 2 must-have") {
		t.Errorf("prompt missing feature counts: %q", prompt)
	}
	if !strings.Contains(prompt, "upload -> review -> export") {
		t.Errorf("prompt missing journey path: %q", prompt)
	}
}

func TestCleanJSONResponse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Here you go:\n[1,2,3]\nHope that helps!", "[1,2,3]"},
		{`{"list":[1,2]}`, `{"list":[1,2]}`},
		{"plain text", "plain text"},
	}
	for _, c := range cases {
		if got := cleanJSONResponse(c.in); got != c.want {
			t.Errorf("cleanJSONResponse(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
