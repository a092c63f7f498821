package shared

import "time"

// PaymentStatusEvent defines a broker message carrying an asynchronous
// gateway status change for a collection
type PaymentStatusEvent struct {
	EventID          string    `json:"event_id"`
	TransactionRef   string    `json:"transaction_ref"`
	GatewayReference string    `json:"gateway_reference"`
	Status           string    `json:"status"`
	CorrelationID    string    `json:"correlation_id,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
