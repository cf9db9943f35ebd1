package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"workshopzones/internal/model"
)

const snapshotCollection = "analysis_snapshots"

// SnapshotRepo handles MongoDB operations for analysis snapshots.
// One snapshot is kept per workshop; saving replaces the previous one.
type SnapshotRepo interface {
	Save(ctx context.Context, snapshot *model.AnalysisSnapshot) error
	GetLatest(ctx context.Context, groupID string) (*model.AnalysisSnapshot, error)
	EnsureIndexes(ctx context.Context) error
}

type snapshotRepo struct {
	snapshots *mongo.Collection
}

// NewSnapshotRepo creates a new snapshot repository
func NewSnapshotRepo(db *mongo.Database) SnapshotRepo {
	return &snapshotRepo{
		snapshots: db.Collection(snapshotCollection),
	}
}

func (r *snapshotRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.snapshots.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "groupId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create groupId index: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Save(ctx context.Context, snapshot *model.AnalysisSnapshot) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.snapshots.ReplaceOne(ctx, bson.M{"groupId": snapshot.GroupID}, snapshot, opts)
	return err
}

func (r *snapshotRepo) GetLatest(ctx context.Context, groupID string) (*model.AnalysisSnapshot, error) {
	var snapshot model.AnalysisSnapshot
	err := r.snapshots.FindOne(ctx, bson.M{"groupId": groupID}).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
