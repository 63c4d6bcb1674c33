package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NPierce1798/launchlens/internal/models"
)

// ReportStore handles generated competitor reports in MongoDB. A unique
// index on (user_id, competitor_name) guarantees at most one report per
// competitor per user; Upsert overwrites on regeneration.
type ReportStore struct {
	col *mongo.Collection
}

func NewReportStore(ctx context.Context, db *mongo.Database) (*ReportStore, error) {
	col := db.Collection("reports")
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "competitor_name", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("reports index: %w", err)
	}
	return &ReportStore{col: col}, nil
}

// Upsert inserts or replaces the report for (userID, competitorName).
func (s *ReportStore) Upsert(ctx context.Context, userID, competitorName string, data models.ReportData) error {
	doc := models.CompetitorReport{
		UserID:         userID,
		CompetitorName: competitorName,
		ReportData:     data,
		CreatedAt:      time.Now(),
	}
	filter := bson.M{"user_id": userID, "competitor_name": competitorName}
	_, err := s.col.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("report upsert: %w", err)
	}
	return nil
}

// ListByUser returns the user's reports, newest first.
func (s *ReportStore) ListByUser(ctx context.Context, userID string) ([]models.CompetitorReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reports []models.CompetitorReport
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetByName finds the user's report for one competitor.
func (s *ReportStore) GetByName(ctx context.Context, userID, competitorName string) (*models.CompetitorReport, error) {
	var report models.CompetitorReport
	err := s.col.FindOne(ctx, bson.M{"user_id": userID, "competitor_name": competitorName}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Delete removes the user's report for one competitor.
func (s *ReportStore) Delete(ctx context.Context, userID, competitorName string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"user_id": userID, "competitor_name": competitorName})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
