package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditTrail records reservation lifecycle actions in a mongo collection.
// Audit writes are best-effort; the service logs and swallows failures.
type AuditTrail struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditTrail(db *mongo.Database, logger observability.Logger) *AuditTrail {
	return &AuditTrail{
		coll:   db.Collection("reservation_audit"),
		logger: logger,
	}
}

type auditEntry struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	UserID    uuid.UUID `bson:"user_id"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditTrail) Record(ctx context.Context, action string, userID uuid.UUID, data map[string]any) error {
	entry := auditEntry{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now(),
		Data:      bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, entry)
	if err != nil {
		a.logger.WithError(err).WithField("action", action).Error("failed to insert audit entry")
		return err
	}
	return nil
}
