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

	"github.com/spendwise-tracker/internal/domain/shared"
	"github.com/spendwise-tracker/internal/domain/transaction"
)

type transactionDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Type        string    `bson:"type"`
	Amount      any       `bson:"amount"`
	Currency    string    `bson:"currency,omitempty"`
	Category    string    `bson:"category"`
	Description string    `bson:"description"`
	Date        string    `bson:"date"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newTransactionDocument(tx *transaction.Transaction) transactionDocument {
	return transactionDocument{
		ID:          tx.ID.String(),
		UserID:      tx.OwnerID,
		Type:        string(tx.Kind),
		Amount:      amountValue(tx.Amount),
		Currency:    string(tx.Currency),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.String(),
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func (d transactionDocument) toDomain() (*transaction.Transaction, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	kind, err := shared.ParseTransactionKind(d.Type)
	if err != nil {
		return nil, err
	}
	amount, err := decodeAmount(d.Amount)
	if err != nil {
		return nil, err
	}
	date, err := shared.ParseDate(d.Date)
	if err != nil {
		return nil, err
	}
	currency := shared.DefaultCurrency
	if d.Currency != "" {
		if currency, err = shared.ParseCurrency(d.Currency); err != nil {
			return nil, err
		}
	}

	return &transaction.Transaction{
		ID:          id,
		OwnerID:     d.UserID,
		Kind:        kind,
		Amount:      amount,
		Currency:    currency,
		Category:    d.Category,
		Description: d.Description,
		Date:        date,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// TransactionRepository implements transaction.Repository on MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB ledger entry repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) transaction.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) collection() *mongo.Collection {
	return r.db.Collection(TransactionsCollectionName)
}

// Create stores a new ledger entry
func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	if _, err := r.collection().InsertOne(ctx, newTransactionDocument(tx)); err != nil {
		r.logger.Error("Failed to create transaction", "id", tx.ID, "owner_id", tx.OwnerID, "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves one entry of the owner
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*transaction.Transaction, error) {
	var doc transactionDocument
	err := r.collection().FindOne(ctx, bson.M{"_id": id.String(), "user_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id, "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	tx, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to map transaction %s: %w", id, err)
	}
	return tx, nil
}

// Update applies the fields present in patch and refreshes updated_at
func (r *TransactionRepository) Update(ctx context.Context, ownerID string, id uuid.UUID, patch transaction.Patch) (*transaction.Transaction, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Kind != nil {
		set["type"] = string(*patch.Kind)
	}
	if patch.Amount != nil {
		set["amount"] = amountValue(*patch.Amount)
	}
	if patch.Currency != nil {
		set["currency"] = string(*patch.Currency)
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Date != nil {
		set["date"] = patch.Date.String()
	}

	var doc transactionDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "user_id": ownerID},
		bson.M{"$set": set},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to update transaction", "id", id, "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	tx, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to map transaction %s: %w", id, err)
	}
	return tx, nil
}

// Delete removes one entry of the owner
func (r *TransactionRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id.String(), "user_id": ownerID})
	if err != nil {
		r.logger.Error("Failed to delete transaction", "id", id, "owner_id", ownerID, "error", err)
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return transaction.ErrTransactionNotFound{ID: id}
	}
	return nil
}

// ListByOwner returns the owner's entries, newest date first
func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*transaction.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})

	cursor, err := r.collection().Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		r.logger.Error("Failed to list transactions", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode transactions", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	txs := make([]*transaction.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx, err := doc.toDomain()
		if err != nil {
			r.logger.Warn("Skipping invalid transaction document", "id", doc.ID, "owner_id", ownerID, "error", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Subscribe streams the owner's full entry list on start and after every change
func (r *TransactionRepository) Subscribe(ctx context.Context, ownerID string, onSnapshot func([]*transaction.Transaction), onError func(error)) (shared.Subscription, error) {
	list := func(ctx context.Context) ([]*transaction.Transaction, error) {
		return r.ListByOwner(ctx, ownerID)
	}
	sub, err := subscribe(ctx, r.logger, TransactionsCollectionName, list, ownerChanges(r.collection(), ownerID), onSnapshot, onError)
	if err != nil {
		r.logger.Error("Failed to subscribe to transactions", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to subscribe to transactions: %w", err)
	}
	return sub, nil
}
