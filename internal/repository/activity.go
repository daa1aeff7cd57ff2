package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pattarapk/storefront/internal/model"
)

const (
	activityDatabase   = "storefront"
	activityCollection = "activity_logs"
)

// ActivityLogRepository is storage behavior for the audit trail
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	FindByUserID(ctx context.Context, userID string, limit int64) ([]*model.ActivityLog, error)
}

type mongoActivityLogRepository struct {
	client *mongo.Client
}

// NewMongoActivityLogRepository builds mongo ActivityLogRepository
func NewMongoActivityLogRepository(client *mongo.Client) ActivityLogRepository {
	return &mongoActivityLogRepository{client: client}
}

func (r *mongoActivityLogRepository) collection() *mongo.Collection {
	return r.client.Database(activityDatabase).Collection(activityCollection)
}

func (r *mongoActivityLogRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	if _, err := r.collection().InsertOne(ctx, entry); err != nil {
		return err
	}
	return nil
}

func (r *mongoActivityLogRepository) FindByUserID(ctx context.Context, userID string, limit int64) ([]*model.ActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]*model.ActivityLog, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
