package service

import "context"

// latestOnly keeps only the newest pending update; a slow reader skips
// intermediate values rather than blocking store deliveries.
type latestOnly[T any] struct {
	pending chan T
}

func newLatestOnly[T any]() *latestOnly[T] {
	return &latestOnly[T]{pending: make(chan T, 1)}
}

func (l *latestOnly[T]) push(u T) {
	for {
		select {
		case l.pending <- u:
			return
		default:
		}
		select {
		case <-l.pending:
		default:
		}
	}
}

// forward relays pending updates until ctx is done, then calls release and
// closes the returned channel.
func (l *latestOnly[T]) forward(ctx context.Context, release func()) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		defer release()
		for {
			select {
			case <-ctx.Done():
				return
			case u := <-l.pending:
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
