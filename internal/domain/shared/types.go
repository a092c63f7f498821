package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrInvalidSavingsKind     = errors.New("invalid savings kind")
	ErrInvalidSavingsStatus   = errors.New("invalid savings status")
	ErrInvalidService         = errors.New("invalid carrier service")
	ErrInvalidCurrency        = errors.New("invalid currency")
)

// TransactionKind separates ledger entries into money in and money out
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindIncome, TransactionKindExpense:
		return true
	}
	return false
}

func ParseTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionKind, s)
	}
	return k, nil
}

// SavingsKind defines the direction of a savings movement
type SavingsKind string

const (
	SavingsKindDeposit    SavingsKind = "deposit"
	SavingsKindWithdrawal SavingsKind = "withdrawal"
)

func (k SavingsKind) Valid() bool {
	switch k {
	case SavingsKindDeposit, SavingsKindWithdrawal:
		return true
	}
	return false
}

func ParseSavingsKind(s string) (SavingsKind, error) {
	k := SavingsKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSavingsKind, s)
	}
	return k, nil
}

// SavingsStatus defines savings transaction settlement states
type SavingsStatus string

const (
	SavingsStatusPending SavingsStatus = "pending"
	SavingsStatusSuccess SavingsStatus = "success"
	SavingsStatusFailed  SavingsStatus = "failed"
)

func (s SavingsStatus) Valid() bool {
	switch s {
	case SavingsStatusPending, SavingsStatusSuccess, SavingsStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s SavingsStatus) Terminal() bool {
	switch s {
	case SavingsStatusSuccess, SavingsStatusFailed:
		return true
	case SavingsStatusPending:
		return false
	}
	return false
}

func ParseSavingsStatus(s string) (SavingsStatus, error) {
	st := SavingsStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSavingsStatus, s)
	}
	return st, nil
}

// CarrierService is a mobile-money provider a collection is routed through
type CarrierService string

const (
	CarrierServiceMTN    CarrierService = "MTN"
	CarrierServiceOrange CarrierService = "ORANGE"
	CarrierServiceMoov   CarrierService = "MOOV"
)

// CarrierServices lists every supported carrier in display order.
var CarrierServices = []CarrierService{CarrierServiceMTN, CarrierServiceOrange, CarrierServiceMoov}

func (c CarrierService) Valid() bool {
	switch c {
	case CarrierServiceMTN, CarrierServiceOrange, CarrierServiceMoov:
		return true
	}
	return false
}

func ParseCarrierService(s string) (CarrierService, error) {
	c := CarrierService(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidService, s)
	}
	return c, nil
}

// Currency is an ISO 4217 code accepted by the tracker
type Currency string

const (
	CurrencyXAF Currency = "XAF"
	CurrencyUSD Currency = "USD"
	CurrencyNGN Currency = "NGN"
	CurrencyEUR Currency = "EUR"
)

// DefaultCurrency is applied when a ledger entry omits its currency.
const DefaultCurrency = CurrencyUSD

func (c Currency) Valid() bool {
	switch c {
	case CurrencyXAF, CurrencyUSD, CurrencyNGN, CurrencyEUR:
		return true
	}
	return false
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return c, nil
}

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
