package mvp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NPierce1798/launchlens/internal/models"
	"github.com/NPierce1798/launchlens/internal/store"
)

// ErrGenerationFailed marks a failed insight generation: a model error, a
// malformed bundle, or a missing section. No partial bundle ever escapes it.
var ErrGenerationFailed = errors.New("insight generation failed")

// InsightModel produces a full insights bundle from plan data.
type InsightModel interface {
	GenerateMVPInsights(ctx context.Context, plan models.PlanData) (*models.InsightsBundle, error)
}

// PlanStore defines the persistence interface for MVP plans.
type PlanStore interface {
	CreatePlan(ctx context.Context, userID string, data models.PlanData) (*models.MVPPlan, error)
	GetPlan(ctx context.Context, userID, id string) (*models.MVPPlan, error)
	ListPlans(ctx context.Context, userID string) ([]models.MVPPlan, error)
	DeletePlan(ctx context.Context, userID, id string) error
	SaveInsights(ctx context.Context, userID, id string, bundle *models.InsightsBundle, generatedAt time.Time) error
}

// Generator owns the insight lifecycle for MVP plans: generate once, reuse
// the stored bundle, replace wholesale on explicit regeneration.
type Generator struct {
	model InsightModel
	plans PlanStore
	log   *logrus.Logger
}

func NewGenerator(model InsightModel, plans PlanStore, log *logrus.Logger) *Generator {
	return &Generator{model: model, plans: plans, log: log}
}

// GenerateInsights returns the plan's insight bundle. When the stored plan
// already carries one and regeneration was not requested, the stored bundle
// is returned without a model call. The write-back of a fresh bundle is
// best-effort: its failure is logged and the bundle is still returned.
func (g *Generator) GenerateInsights(ctx context.Context, userID, planID string, data models.PlanData, regenerate bool) (*models.InsightsBundle, *time.Time, error) {
	plan, err := g.plans.GetPlan(ctx, userID, planID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		g.log.Warnf("insights: loading plan %s: %v", planID, err)
	}
	if plan != nil && plan.Insights != nil && !regenerate {
		return plan.Insights, plan.InsightsGeneratedAt, nil
	}

	bundle, err := g.model.GenerateMVPInsights(ctx, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	generatedAt := time.Now()
	if err := g.plans.SaveInsights(ctx, userID, planID, bundle, generatedAt); err != nil {
		g.log.Warnf("insights: saving bundle for plan %s: %v", planID, err)
	}
	return bundle, &generatedAt, nil
}
