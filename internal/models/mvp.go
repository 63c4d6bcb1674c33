package models

import "time"

// Feature priorities assigned in the MVP builder.
const (
	PriorityUnassigned = "unassigned"
	PriorityMustHave   = "must-have"
	PriorityShouldHave = "should-have"
	PriorityCouldHave  = "could-have"
	PriorityFuture     = "future"
)

// Feature is one planned product feature.
type Feature struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority string `json:"priority"`
}

// JourneyFeature references a feature attached to a journey step.
type JourneyFeature struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// JourneyStep is one step of the planned user journey.
type JourneyStep struct {
	ID       string           `json:"id"`
	Step     string           `json:"step"`
	Features []JourneyFeature `json:"features"`
}

// PlanData is the payload produced by the MVP builder wizard.
type PlanData struct {
	ProblemStatement string        `json:"problemStatement"`
	TargetCustomer   string        `json:"targetCustomer"`
	Solution         string        `json:"solution"`
	Industry         string        `json:"industry"`
	Features         []Feature     `json:"features"`
	UserJourney      []JourneyStep `json:"userJourney"`
	IncludePitchDeck bool          `json:"includePitchDeck"`
	GeneratedAt      time.Time     `json:"generatedAt"`
}

// InsightSection is one analyzed section of an insights bundle.
type InsightSection struct {
	Insights string `json:"insights"`
}

// InsightSections holds the ten required analysis sections. All of them must
// be present in the model's output for a bundle to be accepted.
type InsightSections struct {
	ProblemStatement  InsightSection `json:"problemStatement"`
	Solution          InsightSection `json:"solution"`
	TargetCustomer    InsightSection `json:"targetCustomer"`
	Features          InsightSection `json:"features"`
	UserJourney       InsightSection `json:"userJourney"`
	TimelineEstimate  InsightSection `json:"timelineEstimate"`
	BudgetEstimate    InsightSection `json:"budgetEstimate"`
	RiskFactors       InsightSection `json:"riskFactors"`
	Recommendations   InsightSection `json:"recommendations"`
	OverallAssessment InsightSection `json:"overallAssessment"`
}

// InsightsBundle is the full LLM analysis stored on an MVP plan. Regeneration
// replaces the whole bundle, never merges into it.
type InsightsBundle struct {
	Insights    InsightSections       `json:"insights"`
	Competitors []CompetitorCandidate `json:"competitors,omitempty"`
}

// MVPPlan is an MVP plan row owned by one user.
type MVPPlan struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"userId"`
	Data                PlanData        `json:"data"`
	Insights            *InsightsBundle `json:"insights,omitempty"`
	InsightsGeneratedAt *time.Time      `json:"insightsGeneratedAt,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}
