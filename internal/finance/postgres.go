package finance

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresStore implements Store on a hosted Postgres database, the
// managed persistence used in production deployments.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects with the given DSN and migrates the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := db.AutoMigrate(&Transaction{}, &Category{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// SaveTransaction inserts or updates a transaction.
func (p *PostgresStore) SaveTransaction(t *Transaction) error {
	return p.db.Save(t).Error
}

// GetTransaction retrieves one of the user's transactions by id.
func (p *PostgresStore) GetTransaction(userID, id string) (*Transaction, error) {
	var t Transaction
	err := p.db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransactions returns the user's transactions, newest first.
func (p *PostgresStore) ListTransactions(userID string, limit, offset int) ([]*Transaction, error) {
	out := make([]*Transaction, 0)
	q := p.db.Where("user_id = ?", userID).
		Order("transaction_date DESC").
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTransaction removes one of the user's transactions.
func (p *PostgresStore) DeleteTransaction(userID, id string) error {
	res := p.db.Where("id = ? AND user_id = ?", id, userID).Delete(&Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllTransactions removes every transaction of the user.
func (p *PostgresStore) DeleteAllTransactions(userID string) error {
	return p.db.Where("user_id = ?", userID).Delete(&Transaction{}).Error
}

// SaveCategory inserts or updates a category.
func (p *PostgresStore) SaveCategory(c *Category) error {
	return p.db.Save(c).Error
}

// GetCategory retrieves a category by id.
func (p *PostgresStore) GetCategory(id string) (*Category, error) {
	var c Category
	err := p.db.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns defaults plus the user's custom categories.
func (p *PostgresStore) ListCategories(userID string) ([]*Category, error) {
	out := make([]*Category, 0)
	err := p.db.Where("is_default = ? OR user_id = ?", true, userID).
		Order("is_default DESC").
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCategory removes one of the user's custom categories.
func (p *PostgresStore) DeleteCategory(userID, id string) error {
	res := p.db.Where("id = ? AND user_id = ? AND is_default = ?", id, userID, false).Delete(&Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReassignCategory moves the user's transactions between categories.
func (p *PostgresStore) ReassignCategory(userID, fromID, toID string) error {
	return p.db.Model(&Transaction{}).
		Where("user_id = ? AND category_id = ?", userID, fromID).
		Update("category_id", toID).Error
}

// Close closes the underlying connection pool.
func (p *PostgresStore) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
