package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/snipbox/snippet-api/internal/core/ports"
)

const collectionDecisions = "authz_decisions"

// DecisionRepository implements ports.DecisionRepository using MongoDB.
type DecisionRepository struct {
	col *mongo.Collection
}

// NewDecisionRepository creates a new DecisionRepository.
func NewDecisionRepository(db *mongo.Database) *DecisionRepository {
	return &DecisionRepository{col: db.Collection(collectionDecisions)}
}

// Insert appends one decision to the audit collection.
func (r *DecisionRepository) Insert(ctx context.Context, rec ports.DecisionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, decisionDocument(rec)); err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes on the audit collection. When
// retention is positive, records expire after that long.
func (r *DecisionRepository) EnsureIndexes(ctx context.Context, retention time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	at := mongo.IndexModel{Keys: bson.D{{Key: "at", Value: 1}}}
	if retention > 0 {
		at.Options = options.Index().SetExpireAfterSeconds(int32(retention.Seconds()))
	}

	indexes := []mongo.IndexModel{
		at,
		{Keys: bson.D{{Key: "actor.id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "effect", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decisionDocument(rec ports.DecisionRecord) bson.M {
	doc := bson.M{
		"at":     rec.At.UTC(),
		"action": rec.Action.Kind.String(),
		"effect": rec.Decision.Effect.String(),
		"reason": rec.Decision.Reason.String(),
		"actor": bson.M{
			"state": rec.Actor.State.String(),
			"id":    rec.Actor.ID,
			"role":  rec.Actor.RoleName,
		},
		"target": bson.M{
			"account_id":     rec.Target.AccountID,
			"role_name":      rec.Target.RoleName,
			"role_immutable": rec.Target.RoleImmutable,
			"owner_id":       rec.Target.OwnerID,
		},
	}
	if rec.Action.AsRole != "" {
		doc["as_role"] = rec.Action.AsRole
	}
	if len(rec.Action.Changes) > 0 {
		doc["changes"] = fieldNames(rec.Action.Changes)
	}
	if len(rec.Decision.Dropped) > 0 {
		doc["dropped"] = fieldNames(rec.Decision.Dropped)
	}
	return doc
}

func fieldNames[F ~string](fields []F) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
