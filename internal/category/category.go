package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

// Category is a user-defined income or expense bucket. Names are unique per
// user and referenced from transactions as plain strings: deleting a category
// leaves its transactions filed under the orphaned name.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      transaction.Type
	SortIndex int
	// MonthlyBudget is an optional spending ceiling in cents, used for the
	// dashboard's budget progress. Nil means no budget set.
	MonthlyBudget *int64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
