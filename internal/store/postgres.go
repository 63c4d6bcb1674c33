package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NPierce1798/launchlens/internal/models"
)

// ErrNotFound is returned when a row does not exist or is owned by another
// user.
var ErrNotFound = errors.New("not found")

// PostgresStore handles users, tracked competitors, and MVP plans.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username   VARCHAR(50)  UNIQUE NOT NULL,
			email      VARCHAR(255) UNIQUE NOT NULL,
			password   VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS tracked (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id    UUID  NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			idea       TEXT  NOT NULL,
			info       JSONB NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS mvps (
			id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id               UUID  NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			data                  JSONB NOT NULL,
			insights              JSONB,
			insights_generated_at TIMESTAMPTZ,
			created_at            TIMESTAMPTZ DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ── Users ────────────────────────────────────────────────────

func (s *PostgresStore) CreateUser(ctx context.Context, username, email, hashedPassword string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, email, created_at`,
		username, email, hashedPassword,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, password, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ── Tracked competitors ──────────────────────────────────────

func (s *PostgresStore) TrackCompetitor(ctx context.Context, userID, idea string, info models.CompetitorCandidate) (*models.TrackedCompetitor, error) {
	infoJSON, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("track competitor: %w", err)
	}
	t := models.TrackedCompetitor{UserID: userID, Idea: idea, Info: info}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO tracked (user_id, idea, info)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		userID, idea, infoJSON,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("track competitor: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTracked(ctx context.Context, userID string) ([]models.TrackedCompetitor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, idea, info, created_at
		 FROM tracked WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracked []models.TrackedCompetitor
	for rows.Next() {
		var t models.TrackedCompetitor
		var infoJSON []byte
		if err := rows.Scan(&t.ID, &t.UserID, &t.Idea, &infoJSON, &t.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(infoJSON, &t.Info); err != nil {
			return nil, fmt.Errorf("list tracked: %w", err)
		}
		tracked = append(tracked, t)
	}
	return tracked, rows.Err()
}

func (s *PostgresStore) UntrackCompetitor(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM tracked WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── MVP plans ────────────────────────────────────────────────

func (s *PostgresStore) CreatePlan(ctx context.Context, userID string, data models.PlanData) (*models.MVPPlan, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	p := models.MVPPlan{UserID: userID, Data: data}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO mvps (user_id, data)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		userID, dataJSON,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetPlan(ctx context.Context, userID, id string) (*models.MVPPlan, error) {
	var (
		p            models.MVPPlan
		dataJSON     []byte
		insightsJSON []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, data, insights, insights_generated_at, created_at
		 FROM mvps WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&p.ID, &p.UserID, &dataJSON, &insightsJSON, &p.InsightsGeneratedAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(dataJSON, &p.Data); err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if insightsJSON != nil {
		p.Insights = &models.InsightsBundle{}
		if err := json.Unmarshal(insightsJSON, p.Insights); err != nil {
			return nil, fmt.Errorf("get plan insights: %w", err)
		}
	}
	return &p, nil
}

func (s *PostgresStore) ListPlans(ctx context.Context, userID string) ([]models.MVPPlan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, data, insights, insights_generated_at, created_at
		 FROM mvps WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.MVPPlan
	for rows.Next() {
		var (
			p            models.MVPPlan
			dataJSON     []byte
			insightsJSON []byte
		)
		if err := rows.Scan(&p.ID, &p.UserID, &dataJSON, &insightsJSON, &p.InsightsGeneratedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(dataJSON, &p.Data); err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		if insightsJSON != nil {
			p.Insights = &models.InsightsBundle{}
			if err := json.Unmarshal(insightsJSON, p.Insights); err != nil {
				return nil, fmt.Errorf("list plans insights: %w", err)
			}
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *PostgresStore) DeletePlan(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM mvps WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveInsights overwrites the plan's insight bundle and stamps the
// generation time. The whole bundle is replaced, never merged.
func (s *PostgresStore) SaveInsights(ctx context.Context, userID, id string, bundle *models.InsightsBundle, generatedAt time.Time) error {
	bundleJSON, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("save insights: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE mvps SET insights = $1, insights_generated_at = $2
		 WHERE id = $3 AND user_id = $4`,
		bundleJSON, generatedAt, id, userID)
	if err != nil {
		return fmt.Errorf("save insights: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
