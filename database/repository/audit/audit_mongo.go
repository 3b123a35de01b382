// Package audit persists the request audit trail. Writes arrive through the
// async task queue so request handling never blocks on them.
package audit

import (
	"context"
	"fmt"

	"cargoassist/database"
	"cargoassist/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const auditCollection = "audit_logs"

// Repository stores audit records.
type Repository interface {
	Insert(ctx context.Context, rec *models.AuditRecord) error
}

// MongoAuditRepo implements Repository backed by the audit_logs collection.
type MongoAuditRepo struct{}

func NewMongoAuditRepo() *MongoAuditRepo {
	return &MongoAuditRepo{}
}

func (r *MongoAuditRepo) coll() *mongo.Collection {
	return database.Collection(auditCollection)
}

func (r *MongoAuditRepo) Insert(ctx context.Context, rec *models.AuditRecord) error {
	if _, err := r.coll().InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// EnsureIndexes creates the timestamp index used by retention queries.
func (r *MongoAuditRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}
