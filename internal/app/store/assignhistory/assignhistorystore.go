// internal/app/store/assignhistory/assignhistorystore.go
package assignhistorystore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schoolyard/examdesk/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignment_history")}
}

// Create inserts an assignment history record. If CreatedAt is zero it is
// set to now (UTC).
func (s *Store) Create(ctx context.Context, rec models.AssignmentRecord) (models.AssignmentRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	res, err := s.c.InsertOne(ctx, rec)
	if err != nil {
		return rec, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}
	return rec, nil
}

// ListRecent returns the most recent records for a flow, newest first.
func (s *Store) ListRecent(ctx context.Context, flow string, limit int64) ([]models.AssignmentRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"flow": flow}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AssignmentRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the indexes the history queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "flow", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "resource_id", Value: 1}}},
	})
	return err
}
