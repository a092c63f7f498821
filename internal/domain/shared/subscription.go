package shared

// Subscription is a live store query held open for one owner.
// Close releases it and is safe to call more than once.
type Subscription interface {
	Close() error
}
