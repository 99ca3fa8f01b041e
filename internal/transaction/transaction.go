package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a financial transaction owned by a user.
// Amount is always positive; Type carries the direction. Category is a plain
// name string: deleting a category does not cascade, transactions keep the
// name they were filed under.
type Transaction struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Amount         int64 // Amount in cents
	Type           Type
	Category       string
	Description    string
	RawDescription string
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}
