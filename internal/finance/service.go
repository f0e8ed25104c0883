package finance

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// IDGenerator generates unique ids for new rows.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

const (
	maxDescriptionLen = 500
	maxMerchantLen    = 200
	maxCategoryLen    = 50

	// fallbackCategory is the default category transactions are moved to
	// when their custom category is deleted.
	fallbackCategory = "Lainnya"
)

// defaultCategories are seeded once, shared by every user.
var defaultCategories = []Category{
	{Name: "Makanan & Minuman", Icon: "🍔", Color: "#F59E0B"},
	{Name: "Transportasi", Icon: "🚗", Color: "#3B82F6"},
	{Name: "Belanja", Icon: "🛍️", Color: "#EC4899"},
	{Name: "Tagihan", Icon: "🧾", Color: "#8B5CF6"},
	{Name: "Hiburan", Icon: "🎮", Color: "#10B981"},
	{Name: "Kesehatan", Icon: "💊", Color: "#EF4444"},
	{Name: "Gaji", Icon: "💰", Color: "#22C55E"},
	{Name: fallbackCategory, Icon: "📁", Color: "#6B7280"},
}

// Service owns transaction and category business logic on top of a Store.
type Service struct {
	store       Store
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with default id generation and clock.
func NewService(store Store) *Service {
	return NewServiceWithDeps(store, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with injected dependencies for
// testing.
func NewServiceWithDeps(store Store, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{store: store, idGenerator: idGen, timeSource: timeSrc}
}

// TransactionInput carries the fields a caller may set on a transaction.
type TransactionInput struct {
	Type            string     `json:"type"`
	Amount          int64      `json:"amount"`
	CategoryID      string     `json:"category_id"`
	Description     string     `json:"description"`
	MerchantName    string     `json:"merchant_name"`
	TransactionDate *time.Time `json:"-"`
	ReceiptURL      string     `json:"receipt_url"`
}

func validateInput(in TransactionInput) error {
	if in.Type != TypeIncome && in.Type != TypeExpense {
		return fmt.Errorf("type must be %q or %q", TypeIncome, TypeExpense)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if len(in.Description) > maxDescriptionLen {
		return fmt.Errorf("description too long (max %d)", maxDescriptionLen)
	}
	if len(in.MerchantName) > maxMerchantLen {
		return fmt.Errorf("merchant name too long (max %d)", maxMerchantLen)
	}
	return nil
}

// CreateTransaction validates and stores a new transaction for the user.
// The transaction date defaults to today.
func (s *Service) CreateTransaction(userID string, in TransactionInput) (*Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.timeSource.Now()
	date := now
	if in.TransactionDate != nil {
		date = *in.TransactionDate
	}

	t := &Transaction{
		ID:              s.idGenerator.Generate(),
		UserID:          userID,
		Type:            in.Type,
		Amount:          in.Amount,
		CategoryID:      in.CategoryID,
		Description:     in.Description,
		MerchantName:    in.MerchantName,
		TransactionDate: date,
		ReceiptURL:      in.ReceiptURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.SaveTransaction(t); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}
	s.decorate(t)
	return t, nil
}

// GetTransaction retrieves one of the user's transactions.
func (s *Service) GetTransaction(userID, id string) (*Transaction, error) {
	t, err := s.store.GetTransaction(userID, id)
	if err != nil {
		return nil, err
	}
	s.decorate(t)
	return t, nil
}

// ListTransactions returns a page of the user's transactions, newest
// first. A non-positive limit falls back to 50.
func (s *Service) ListTransactions(userID string, limit, offset int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.store.ListTransactions(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	for _, t := range list {
		s.decorate(t)
	}
	return list, nil
}

// TransactionUpdate carries the optional fields of a partial update; nil
// means "leave unchanged".
type TransactionUpdate struct {
	Type            *string    `json:"type"`
	Amount          *int64     `json:"amount"`
	CategoryID      *string    `json:"category_id"`
	Description     *string    `json:"description"`
	MerchantName    *string    `json:"merchant_name"`
	TransactionDate *time.Time `json:"-"`
	ReceiptURL      *string    `json:"receipt_url"`
}

// UpdateTransaction applies the non-nil fields of the update and
// revalidates the result.
func (s *Service) UpdateTransaction(userID, id string, up TransactionUpdate) (*Transaction, error) {
	t, err := s.store.GetTransaction(userID, id)
	if err != nil {
		return nil, err
	}

	if up.Type != nil {
		t.Type = *up.Type
	}
	if up.Amount != nil {
		t.Amount = *up.Amount
	}
	if up.CategoryID != nil {
		t.CategoryID = *up.CategoryID
	}
	if up.Description != nil {
		t.Description = *up.Description
	}
	if up.MerchantName != nil {
		t.MerchantName = *up.MerchantName
	}
	if up.TransactionDate != nil {
		t.TransactionDate = *up.TransactionDate
	}
	if up.ReceiptURL != nil {
		t.ReceiptURL = *up.ReceiptURL
	}

	if err := validateInput(TransactionInput{
		Type:         t.Type,
		Amount:       t.Amount,
		Description:  t.Description,
		MerchantName: t.MerchantName,
	}); err != nil {
		return nil, err
	}

	t.UpdatedAt = s.timeSource.Now()
	if err := s.store.SaveTransaction(t); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}
	s.decorate(t)
	return t, nil
}

// DeleteTransaction removes one of the user's transactions.
func (s *Service) DeleteTransaction(userID, id string) error {
	return s.store.DeleteTransaction(userID, id)
}

// DeleteAllTransactions removes every transaction of the user.
func (s *Service) DeleteAllTransactions(userID string) error {
	return s.store.DeleteAllTransactions(userID)
}

// decorate fills derived display fields.
func (s *Service) decorate(t *Transaction) {
	if t.CategoryID != "" {
		if c, err := s.store.GetCategory(t.CategoryID); err == nil {
			t.CategoryName = c.Name
			return
		}
	}
	if t.Description != "" {
		t.CategoryName = t.Description
	} else {
		t.CategoryName = "Uncategorized"
	}
}

// EnsureDefaultCategories seeds the shared default categories once.
func (s *Service) EnsureDefaultCategories() error {
	existing, err := s.store.ListCategories("")
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		if c.IsDefault {
			present[c.Name] = true
		}
	}

	now := s.timeSource.Now()
	for _, def := range defaultCategories {
		if present[def.Name] {
			continue
		}
		c := def
		c.ID = s.idGenerator.Generate()
		c.IsDefault = true
		c.CreatedAt = now
		if err := s.store.SaveCategory(&c); err != nil {
			return fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
		slog.Info("Seeded default category", "name", c.Name)
	}
	return nil
}

// ListCategories returns the categories available to the user.
func (s *Service) ListCategories(userID string) ([]*Category, error) {
	return s.store.ListCategories(userID)
}

// CreateCategory creates a custom category for the user.
func (s *Service) CreateCategory(userID, name, icon, color string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxCategoryLen {
		return nil, fmt.Errorf("category name must be 1-%d characters", maxCategoryLen)
	}
	if icon == "" {
		icon = "📁"
	}
	if color == "" {
		color = "#6B7280"
	}

	c := &Category{
		ID:        s.idGenerator.Generate(),
		UserID:    userID,
		Name:      name,
		Icon:      icon,
		Color:     color,
		IsDefault: false,
		CreatedAt: s.timeSource.Now(),
	}
	if err := s.store.SaveCategory(c); err != nil {
		return nil, fmt.Errorf("saving category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a custom category, first moving its transactions
// to the shared fallback category. Default categories cannot be deleted.
func (s *Service) DeleteCategory(userID, id string) error {
	c, err := s.store.GetCategory(id)
	if err != nil {
		return err
	}
	if c.IsDefault || c.UserID != userID {
		return ErrNotFound
	}

	if fallback := s.findFallbackCategory(); fallback != "" {
		if err := s.store.ReassignCategory(userID, id, fallback); err != nil {
			return fmt.Errorf("reassigning transactions: %w", err)
		}
	}
	return s.store.DeleteCategory(userID, id)
}

func (s *Service) findFallbackCategory() string {
	categories, err := s.store.ListCategories("")
	if err != nil {
		return ""
	}
	for _, c := range categories {
		if c.IsDefault && c.Name == fallbackCategory {
			return c.ID
		}
	}
	return ""
}
