package mongo

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names
const (
	TransactionsCollectionName        = "transactions"
	SavingsTransactionsCollectionName = "savings_transactions"
	SavingsGoalsCollectionName        = "savings_goals"
)

// amountValue encodes an amount as Decimal128 so sums stay exact.
func amountValue(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		// decimal.String never produces exponent forms Decimal128 rejects
		// within the range of money amounts.
		v, _ = primitive.ParseDecimal128(d.StringFixed(2))
	}
	return v
}

// decodeAmount accepts every numeric BSON type. Older documents store
// amounts as doubles or integers.
func decodeAmount(v any) (decimal.Decimal, error) {
	switch a := v.(type) {
	case primitive.Decimal128:
		return decimal.NewFromString(a.String())
	case float64:
		return decimal.NewFromFloat(a), nil
	case int32:
		return decimal.NewFromInt32(a), nil
	case int64:
		return decimal.NewFromInt(a), nil
	case string:
		return decimal.NewFromString(a)
	}
	return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
}
