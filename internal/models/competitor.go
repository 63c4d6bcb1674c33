package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompetitorCandidate is an LLM-proposed competitor. It is ephemeral until a
// user tracks it or generates a report from it.
type CompetitorCandidate struct {
	Name        string `json:"name"                  bson:"name"`
	Website     string `json:"website,omitempty"     bson:"website,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Focus       string `json:"focus,omitempty"       bson:"focus,omitempty"`
	Founded     string `json:"founded,omitempty"     bson:"founded,omitempty"`
	Success     string `json:"success,omitempty"     bson:"success,omitempty"`
	Pitfalls    string `json:"pitfalls,omitempty"    bson:"pitfalls,omitempty"`
}

// TrackedCompetitor is a candidate a user chose to follow, stored in
// PostgreSQL and grouped in the UI by the idea it came from.
type TrackedCompetitor struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Idea      string              `json:"idea"`
	Info      CompetitorCandidate `json:"info"`
	CreatedAt time.Time           `json:"createdAt"`
}

// FundingRound is one entry of a company's funding history.
type FundingRound struct {
	AnnouncedOn  string   `json:"announcedOn,omitempty"  bson:"announced_on,omitempty"`
	FundingStage string   `json:"fundingStage,omitempty" bson:"funding_stage,omitempty"`
	MoneyRaised  string   `json:"moneyRaised,omitempty"  bson:"money_raised,omitempty"`
	Investors    []string `json:"investors,omitempty"    bson:"investors,omitempty"`
}

// CompanyUpdate is a recent public post by the company.
type CompanyUpdate struct {
	PostedOn    string `json:"postedOn,omitempty"    bson:"posted_on,omitempty"`
	Text        string `json:"text"                  bson:"text"`
	ArticleLink string `json:"articleLink,omitempty" bson:"article_link,omitempty"`
}

// SimilarCompany is a company the enrichment provider lists as comparable.
type SimilarCompany struct {
	Name     string `json:"name"               bson:"name"`
	Industry string `json:"industry,omitempty" bson:"industry,omitempty"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
	Link     string `json:"link,omitempty"     bson:"link,omitempty"`
}

// CompanyProfile is the normalized enrichment result for one company. It is
// derived data: always re-fetchable from the provider, never authoritative.
type CompanyProfile struct {
	Name             string           `json:"name"                       bson:"name"`
	Description      string           `json:"description,omitempty"      bson:"description,omitempty"`
	Industry         string           `json:"industry,omitempty"         bson:"industry,omitempty"`
	CompanySizeLabel string           `json:"companySizeLabel,omitempty" bson:"company_size_label,omitempty"`
	CompanyType      string           `json:"companyType,omitempty"      bson:"company_type,omitempty"`
	Headquarters     string           `json:"headquarters,omitempty"     bson:"headquarters,omitempty"`
	FundingRounds    []FundingRound   `json:"fundingRounds"              bson:"funding_rounds"`
	Updates          []CompanyUpdate  `json:"updates"                    bson:"updates"`
	Categories       []string         `json:"categories"                 bson:"categories"`
	Specialties      []string         `json:"specialties"                bson:"specialties"`
	SimilarCompanies []SimilarCompany `json:"similarCompanies"           bson:"similar_companies"`
}

// NewsItem is one article from the news feed, at most five per competitor per
// report generation, in feed order.
type NewsItem struct {
	Title   string `json:"title"             bson:"title"`
	Link    string `json:"link"              bson:"link"`
	Content string `json:"content,omitempty" bson:"content,omitempty"`
}

// ReportData is the generated body of a competitor report.
type ReportData struct {
	Original  CompetitorCandidate `json:"original"  bson:"original"`
	ProxyData *CompanyProfile     `json:"proxyData" bson:"proxy_data"`
	News      []NewsItem          `json:"news"      bson:"news"`
	Summary   string              `json:"summary"   bson:"summary"`
	Sentiment *int                `json:"sentiment" bson:"sentiment"`
}

// CompetitorReport is a generated report stored in MongoDB. At most one
// report exists per (user, competitor name); regeneration overwrites it.
type CompetitorReport struct {
	ID             primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	UserID         string             `json:"userId"         bson:"user_id"`
	CompetitorName string             `json:"competitorName" bson:"competitor_name"`
	ReportData     ReportData         `json:"reportData"     bson:"report_data"`
	CreatedAt      time.Time          `json:"createdAt"      bson:"created_at"`
}
