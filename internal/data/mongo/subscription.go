package mongo

import (
	"context"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spendwise-tracker/internal/domain/shared"
)

// changeStream is the part of *mongo.ChangeStream a subscription uses
type changeStream interface {
	Next(ctx context.Context) bool
	Err() error
	Close(ctx context.Context) error
}

// ownerChanges watches one owner's documents. Deletes carry no full
// document, so every delete wakes every watcher; the follow-up query is
// owner-scoped either way.
func ownerChanges(coll *mongo.Collection, ownerID string) func(ctx context.Context) (changeStream, error) {
	return func(ctx context.Context) (changeStream, error) {
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"$or": bson.A{
				bson.M{"fullDocument.user_id": ownerID},
				bson.M{"operationType": "delete"},
			}}}},
		}
		opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
		return coll.Watch(ctx, pipeline, opts)
	}
}

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

// subscribe opens the change stream, delivers the initial snapshot, then
// re-reads and delivers the full list after every change. Each delivery
// is an authoritative replacement. Query and stream errors go to onError
// and never stop delivery of later snapshots.
func subscribe[T any](
	ctx context.Context,
	logger *slog.Logger,
	name string,
	list func(ctx context.Context) ([]T, error),
	watch func(ctx context.Context) (changeStream, error),
	onSnapshot func([]T),
	onError func(error),
) (shared.Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	stream, err := watch(subCtx)
	if err != nil {
		cancel()
		return nil, err
	}

	items, err := list(subCtx)
	if err != nil {
		_ = stream.Close(context.Background())
		cancel()
		return nil, err
	}
	onSnapshot(items)

	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		defer func() {
			_ = stream.Close(context.Background())
		}()

		for stream.Next(subCtx) {
			items, err := list(subCtx)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}
				logger.Error("Failed to refresh snapshot", "collection", name, "error", err)
				onError(err)
				continue
			}
			onSnapshot(items)
		}

		if err := stream.Err(); err != nil && subCtx.Err() == nil {
			logger.Error("Change stream stopped", "collection", name, "error", err)
			onError(err)
		}
	}()

	return sub, nil
}
