package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/NPierce1798/launchlens/internal/models"
)

// ErrMalformedOutput marks a model response that violates its JSON contract:
// unparseable output or a missing required section. Operations never paper
// over it with defaults.
var ErrMalformedOutput = errors.New("malformed model output")

const findCompaniesSystemPrompt = `You are a startup market analyst.

Based on a startup idea and its context, list 5-10 companies (startups or established businesses) that have addressed a similar problem or industry.

Respond with a JSON array of objects, each containing:
- name
- description
- website
- focus
- founded
- success (why they are successful)
- pitfalls (where they can improve)

Respond ONLY with JSON. No explanation.`

const summarizeSystemPrompt = `You are a business analyst summarizing news articles and rating their overall sentiment from 0 (very negative) to 100 (very positive). Include a line of the form "Sentiment Score: <number>" in your summary.`

const insightsSystemPrompt = `You are a startup advisor analyzing an MVP plan.

Respond ONLY with a JSON object of the form:
{
  "insights": {
    "problemStatement":  {"insights": "..."},
    "solution":          {"insights": "..."},
    "targetCustomer":    {"insights": "..."},
    "features":          {"insights": "..."},
    "userJourney":       {"insights": "..."},
    "timelineEstimate":  {"insights": "..."},
    "budgetEstimate":    {"insights": "..."},
    "riskFactors":       {"insights": "..."},
    "recommendations":   {"insights": "..."},
    "overallAssessment": {"insights": "..."}
  },
  "competitors": [{"name": "...", "description": "...", "website": "..."}]
}

Every insights section is required. "competitors" is optional. No other text.`

var sentimentRe = regexp.MustCompile(`(?i)Sentiment\s*Score\s*[:\-]?\s*(\d{1,3})`)

// IdeaContext is the free-text context a user supplies about their idea.
type IdeaContext struct {
	Idea           string `json:"idea"`
	TargetCustomer string `json:"targetCustomer"`
	Problem        string `json:"problem"`
	Industry       string `json:"industry"`
}

// Summary is the result of summarize-and-score. Sentiment is nil when the
// model's prose carries no recognizable score line.
type Summary struct {
	Summary   string
	Sentiment *int
}

// Adapter exposes the three model operations the pipelines need on top of a
// single Completer.
type Adapter struct {
	completer Completer
	log       *logrus.Logger
}

func NewAdapter(completer Completer, log *logrus.Logger) *Adapter {
	return &Adapter{completer: completer, log: log}
}

// FindRelevantCompanies asks the model for competitors addressing a similar
// problem. The model's array is returned as-is; callers apply their own cap.
func (a *Adapter) FindRelevantCompanies(ctx context.Context, ic IdeaContext) ([]models.CompetitorCandidate, error) {
	user := fmt.Sprintf("Idea: %s\nTarget Customer: %s\nProblem: %s\nIndustry: %s",
		ic.Idea, ic.TargetCustomer, ic.Problem, ic.Industry)

	content, err := a.completer.Complete(ctx, findCompaniesSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	var candidates []models.CompetitorCandidate
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &candidates); err != nil {
		return nil, fmt.Errorf("%w: find companies: %v", ErrMalformedOutput, err)
	}
	return candidates, nil
}

// SummarizeAndScoreSentiment summarizes news text and extracts the embedded
// sentiment score. The score is parsed from prose, not requested as JSON, so
// extraction failure degrades to nil instead of an error.
func (a *Adapter) SummarizeAndScoreSentiment(ctx context.Context, text string) (*Summary, error) {
	user := fmt.Sprintf("Summarize the following news and give a sentiment score from 0 to 100:\n\n%s", text)

	content, err := a.completer.Complete(ctx, summarizeSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	s := &Summary{Summary: strings.TrimSpace(content)}
	if m := sentimentRe.FindStringSubmatch(content); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil && score <= 100 {
			s.Sentiment = &score
		}
	}
	if s.Sentiment == nil {
		a.log.Warn("no sentiment score found in model summary")
	}
	return s, nil
}

// GenerateMVPInsights produces the full insights bundle for an MVP plan. Any
// JSON violation or missing section fails the whole operation; partial
// bundles are never returned.
func (a *Adapter) GenerateMVPInsights(ctx context.Context, plan models.PlanData) (*models.InsightsBundle, error) {
	content, err := a.completer.Complete(ctx, insightsSystemPrompt, buildInsightsPrompt(plan))
	if err != nil {
		return nil, err
	}

	var bundle models.InsightsBundle
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &bundle); err != nil {
		return nil, fmt.Errorf("%w: mvp insights: %v", ErrMalformedOutput, err)
	}
	if missing := missingSection(bundle.Insights); missing != "" {
		return nil, fmt.Errorf("%w: mvp insights: missing section %q", ErrMalformedOutput, missing)
	}
	return &bundle, nil
}

// buildInsightsPrompt linearizes the plan into the user prompt: headline
// feature counts, the journey as an arrow-joined path, and the free-text
// fields.
func buildInsightsPrompt(plan models.PlanData) string {
	mustHave := 0
	for _, f := range plan.Features {
		if f.Priority == models.PriorityMustHave {
			mustHave++
		}
	}

	steps := make([]string, 0, len(plan.UserJourney))
	for _, s := range plan.UserJourney {
		steps = append(steps, s.Step)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Problem: %s\n", plan.ProblemStatement)
	fmt.Fprintf(&sb, "Target Customer: %s\n", plan.TargetCustomer)
	fmt.Fprintf(&sb, "Solution: %s\n", plan.Solution)
	fmt.Fprintf(&sb, "Industry: %s\n", plan.Industry)
	fmt.Fprintf(&sb, "Features: %d total, %d must-have\n", len(plan.Features), mustHave)
	for _, f := range plan.Features {
		fmt.Fprintf(&sb, "- [%s] %s\n", f.Priority, f.Name)
	}
	fmt.Fprintf(&sb, "User Journey: %s\n", strings.Join(steps, " -> "))
	return sb.String()
}

func missingSection(s models.InsightSections) string {
	checks := []struct {
		name    string
		section models.InsightSection
	}{
		{"problemStatement", s.ProblemStatement},
		{"solution", s.Solution},
		{"targetCustomer", s.TargetCustomer},
		{"features", s.Features},
		{"userJourney", s.UserJourney},
		{"timelineEstimate", s.TimelineEstimate},
		{"budgetEstimate", s.BudgetEstimate},
		{"riskFactors", s.RiskFactors},
		{"recommendations", s.Recommendations},
		{"overallAssessment", s.OverallAssessment},
	}
	for _, c := range checks {
		if c.section.Insights == "" {
			return c.name
		}
	}
	return ""
}
