package finance

import "errors"

// ErrNotFound is returned when a row does not exist or belongs to another
// user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations for transactions and
// categories. Every user-scoped operation filters rows by user id.
type Store interface {
	// SaveTransaction inserts or updates a transaction.
	SaveTransaction(t *Transaction) error

	// GetTransaction retrieves one of the user's transactions by id.
	GetTransaction(userID, id string) (*Transaction, error)

	// ListTransactions returns the user's transactions ordered by
	// transaction date descending, newest created first within a date.
	ListTransactions(userID string, limit, offset int) ([]*Transaction, error)

	// DeleteTransaction removes one of the user's transactions.
	DeleteTransaction(userID, id string) error

	// DeleteAllTransactions removes every transaction of the user.
	DeleteAllTransactions(userID string) error

	// SaveCategory inserts or updates a category.
	SaveCategory(c *Category) error

	// GetCategory retrieves a category by id.
	GetCategory(id string) (*Category, error)

	// ListCategories returns default categories plus the user's custom
	// ones, defaults first, then by name.
	ListCategories(userID string) ([]*Category, error)

	// DeleteCategory removes one of the user's custom categories.
	DeleteCategory(userID, id string) error

	// ReassignCategory moves the user's transactions from one category to
	// another.
	ReassignCategory(userID, fromID, toID string) error

	// Close closes the store.
	Close() error
}
