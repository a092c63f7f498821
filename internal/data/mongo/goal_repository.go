package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
)

type goalDocument struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	Name          string    `bson:"name"`
	TargetAmount  any       `bson:"target_amount"`
	CurrentAmount any       `bson:"current_amount"`
	Deadline      string    `bson:"deadline"`
	Category      string    `bson:"category"`
	Description   string    `bson:"description,omitempty"`
	IsActive      bool      `bson:"is_active"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func newGoalDocument(g *savings.Goal) goalDocument {
	return goalDocument{
		ID:            g.ID.String(),
		UserID:        g.OwnerID,
		Name:          g.Name,
		TargetAmount:  amountValue(g.TargetAmount),
		CurrentAmount: amountValue(g.CurrentAmount),
		Deadline:      g.Deadline.String(),
		Category:      string(g.Category),
		Description:   g.Description,
		IsActive:      g.Active,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func (d goalDocument) toDomain() (*savings.Goal, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	target, err := decodeAmount(d.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("target amount: %w", err)
	}
	current := decimal.Zero
	if d.CurrentAmount != nil {
		if current, err = decodeAmount(d.CurrentAmount); err != nil {
			return nil, fmt.Errorf("current amount: %w", err)
		}
	}
	deadline, err := shared.ParseDate(d.Deadline)
	if err != nil {
		return nil, err
	}
	category := savings.GoalCategory(d.Category)
	if !category.Valid() {
		return nil, savings.ErrInvalidCategory
	}

	return &savings.Goal{
		ID:            id,
		OwnerID:       d.UserID,
		Name:          d.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
		Category:      category,
		Description:   d.Description,
		Active:        d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

// GoalRepository implements savings.GoalRepository on MongoDB
type GoalRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewGoalRepository creates a new MongoDB savings goal repository
func NewGoalRepository(logger *slog.Logger, db *mongo.Database) savings.GoalRepository {
	return &GoalRepository{
		db:     db,
		logger: logger,
	}
}

func (r *GoalRepository) collection() *mongo.Collection {
	return r.db.Collection(SavingsGoalsCollectionName)
}

func goalFilter(ownerID string, id uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "user_id": ownerID}
}

// Create stores a new goal
func (r *GoalRepository) Create(ctx context.Context, goal *savings.Goal) error {
	if _, err := r.collection().InsertOne(ctx, newGoalDocument(goal)); err != nil {
		r.logger.Error("Failed to create goal", "id", goal.ID, "owner_id", goal.OwnerID, "error", err)
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// GetByID retrieves one goal of the owner
func (r *GoalRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*savings.Goal, error) {
	var doc goalDocument
	err := r.collection().FindOne(ctx, goalFilter(ownerID, id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, savings.ErrGoalNotFound{ID: id}
		}
		r.logger.Error("Failed to get goal", "id", id, "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	goal, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to map goal %s: %w", id, err)
	}
	return goal, nil
}

// Update writes every mutable field of goal
func (r *GoalRepository) Update(ctx context.Context, goal *savings.Goal) error {
	update := bson.M{"$set": bson.M{
		"name":           goal.Name,
		"target_amount":  amountValue(goal.TargetAmount),
		"current_amount": amountValue(goal.CurrentAmount),
		"deadline":       goal.Deadline.String(),
		"category":       string(goal.Category),
		"description":    goal.Description,
		"is_active":      goal.Active,
		"updated_at":     goal.UpdatedAt,
	}}

	res, err := r.collection().UpdateOne(ctx, goalFilter(goal.OwnerID, goal.ID), update)
	if err != nil {
		r.logger.Error("Failed to update goal", "id", goal.ID, "owner_id", goal.OwnerID, "error", err)
		return fmt.Errorf("failed to update goal: %w", err)
	}
	if res.MatchedCount == 0 {
		return savings.ErrGoalNotFound{ID: goal.ID}
	}
	return nil
}

// Delete removes one goal of the owner
func (r *GoalRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	res, err := r.collection().DeleteOne(ctx, goalFilter(ownerID, id))
	if err != nil {
		r.logger.Error("Failed to delete goal", "id", id, "owner_id", ownerID, "error", err)
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if res.DeletedCount == 0 {
		return savings.ErrGoalNotFound{ID: id}
	}
	return nil
}

// ListByOwner returns the owner's goals, most recently created first
func (r *GoalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*savings.Goal, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection().Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		r.logger.Error("Failed to list goals", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []goalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode goals", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to decode goals: %w", err)
	}

	goals := make([]*savings.Goal, 0, len(docs))
	for _, doc := range docs {
		goal, err := doc.toDomain()
		if err != nil {
			r.logger.Warn("Skipping invalid goal document", "id", doc.ID, "owner_id", ownerID, "error", err)
			continue
		}
		goals = append(goals, goal)
	}
	return goals, nil
}

// AddContribution increments current_amount in a single conditional write.
// The filter only matches an active goal whose new total stays within the
// target; on a miss the goal is re-read to report the reason.
func (r *GoalRepository) AddContribution(ctx context.Context, ownerID string, id uuid.UUID, amount decimal.Decimal) (*savings.Goal, error) {
	if !amount.IsPositive() {
		return nil, savings.ErrInvalidContributed
	}

	inc := amountValue(amount)
	filter := goalFilter(ownerID, id)
	filter["is_active"] = true
	filter["$expr"] = bson.M{"$lte": bson.A{
		bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$current_amount", 0}}, inc}},
		"$target_amount",
	}}
	update := bson.M{
		"$inc": bson.M{"current_amount": inc},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	var doc goalDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		goal, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to map goal %s: %w", id, err)
		}
		return goal, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		r.logger.Error("Failed to add goal contribution", "id", id, "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to add goal contribution: %w", err)
	}

	goal, err := r.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := goal.CanContribute(amount); err != nil {
		return nil, err
	}
	// The goal changed between the write and the read; report it as a conflict.
	return nil, savings.ErrExceedsTarget
}

// Subscribe streams the owner's full goal list on start and after every change
func (r *GoalRepository) Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*savings.Goal), onError func(error)) (shared.Subscription, error) {
	list := func(ctx context.Context) ([]*savings.Goal, error) {
		return r.ListByOwner(ctx, ownerID)
	}
	sub, err := subscribe(ctx, r.logger, SavingsGoalsCollectionName, list, ownerChanges(r.collection(), ownerID), onSnapshot, onError)
	if err != nil {
		r.logger.Error("Failed to subscribe to goals", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to subscribe to goals: %w", err)
	}
	return sub, nil
}
