package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spendwise-tracker/internal/domain/savings"
	"github.com/spendwise-tracker/internal/domain/shared"
)

type savingsDocument struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	Amount        any       `bson:"amount"`
	Type          string    `bson:"type"`
	Service       string    `bson:"service"`
	PhoneNumber   string    `bson:"phone_number"`
	Status        string    `bson:"status"`
	TransactionID string    `bson:"transaction_id,omitempty"`
	Description   string    `bson:"description,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func newSavingsDocument(tx *savings.Transaction) savingsDocument {
	return savingsDocument{
		ID:            tx.ID.String(),
		UserID:        tx.OwnerID,
		Amount:        amountValue(tx.Amount),
		Type:          string(tx.Kind),
		Service:       string(tx.Service),
		PhoneNumber:   tx.PhoneNumber,
		Status:        string(tx.Status),
		TransactionID: tx.ExternalRef,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func (d savingsDocument) toDomain() (*savings.Transaction, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	amount, err := decodeAmount(d.Amount)
	if err != nil {
		return nil, err
	}
	kind, err := shared.ParseSavingsKind(d.Type)
	if err != nil {
		return nil, err
	}
	service, err := shared.ParseCarrierService(d.Service)
	if err != nil {
		return nil, err
	}
	status, err := shared.ParseSavingsStatus(d.Status)
	if err != nil {
		return nil, err
	}

	return &savings.Transaction{
		ID:          id,
		OwnerID:     d.UserID,
		Amount:      amount,
		Kind:        kind,
		Service:     service,
		PhoneNumber: d.PhoneNumber,
		Status:      status,
		ExternalRef: d.TransactionID,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// SavingsRepository implements savings.TransactionRepository on MongoDB
type SavingsRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSavingsRepository creates a new MongoDB savings transaction repository
func NewSavingsRepository(logger *slog.Logger, db *mongo.Database) savings.TransactionRepository {
	return &SavingsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SavingsRepository) collection() *mongo.Collection {
	return r.db.Collection(SavingsTransactionsCollectionName)
}

// Create stores a new savings record
func (r *SavingsRepository) Create(ctx context.Context, tx *savings.Transaction) error {
	if _, err := r.collection().InsertOne(ctx, newSavingsDocument(tx)); err != nil {
		r.logger.Error("Failed to create savings transaction", "id", tx.ID, "owner_id", tx.OwnerID, "error", err)
		return fmt.Errorf("failed to create savings transaction: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's records, most recently created first
func (r *SavingsRepository) ListByOwner(ctx context.Context, ownerID string) ([]*savings.Transaction, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection().Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		r.logger.Error("Failed to list savings transactions", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to list savings transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []savingsDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode savings transactions", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to decode savings transactions: %w", err)
	}

	txs := make([]*savings.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx, err := doc.toDomain()
		if err != nil {
			r.logger.Warn("Skipping invalid savings document", "id", doc.ID, "owner_id", ownerID, "error", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// GetByReference finds a record by its gateway reference
func (r *SavingsRepository) GetByReference(ctx context.Context, externalRef string) (*savings.Transaction, error) {
	var doc savingsDocument
	err := r.collection().FindOne(ctx, bson.M{"transaction_id": externalRef}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, savings.ErrSavingsTransactionNotFound{Reference: externalRef}
		}
		r.logger.Error("Failed to get savings transaction", "reference", externalRef, "error", err)
		return nil, fmt.Errorf("failed to get savings transaction: %w", err)
	}

	tx, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to map savings transaction %s: %w", externalRef, err)
	}
	return tx, nil
}

// UpdateStatusIfPending settles a pending record. The status filter makes
// the write a no-op for records that already reached a terminal state.
func (r *SavingsRepository) UpdateStatusIfPending(ctx context.Context, externalRef string, status shared.SavingsStatus) (bool, error) {
	filter := bson.M{
		"transaction_id": externalRef,
		"status":         string(shared.SavingsStatusPending),
	}
	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}}

	res, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update savings status", "reference", externalRef, "status", status, "error", err)
		return false, fmt.Errorf("failed to update savings status: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// Distinguish an unknown reference from an already settled one
	if _, err := r.GetByReference(ctx, externalRef); err != nil {
		return false, err
	}
	return false, nil
}

// Subscribe streams the owner's full savings list on start and after every change
func (r *SavingsRepository) Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*savings.Transaction), onError func(error)) (shared.Subscription, error) {
	list := func(ctx context.Context) ([]*savings.Transaction, error) {
		return r.ListByOwner(ctx, ownerID)
	}
	sub, err := subscribe(ctx, r.logger, SavingsTransactionsCollectionName, list, ownerChanges(r.collection(), ownerID), onSnapshot, onError)
	if err != nil {
		r.logger.Error("Failed to subscribe to savings transactions", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to subscribe to savings transactions: %w", err)
	}
	return sub, nil
}
