package finance

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Summary is the all-time dashboard headline.
type Summary struct {
	TotalBalance int64 `json:"total_balance"`
	TotalIncome  int64 `json:"total_income"`
	TotalExpense int64 `json:"total_expense"`
	Month        int   `json:"month"`
	Year         int   `json:"year"`
}

// CategoryShare is one slice of the expense breakdown.
type CategoryShare struct {
	CategoryID   string  `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name"`
	TotalAmount  int64   `json:"total_amount"`
	Percentage   float64 `json:"percentage"`
	Color        string  `json:"color,omitempty"`
}

// TrendPoint is one month of the income-vs-expense trend.
type TrendPoint struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// DailyPoint is one day of a monthly report's trend.
type DailyPoint struct {
	Date    string `json:"date"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// MonthlyReport is the full report for one calendar month.
type MonthlyReport struct {
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	TotalIncome       int64           `json:"total_income"`
	TotalExpense      int64           `json:"total_expense"`
	NetBalance        int64           `json:"net_balance"`
	CategoryBreakdown []CategoryShare `json:"category_breakdown"`
	DailyTrend        []DailyPoint    `json:"daily_trend"`
}

var shortMonthNames = []string{"", "Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// Summary totals all of the user's transactions.
func (s *Service) Summary(userID string) (*Summary, error) {
	all, err := s.allTransactions(userID)
	if err != nil {
		return nil, err
	}

	now := s.timeSource.Now()
	out := &Summary{Month: int(now.Month()), Year: now.Year()}
	for _, t := range all {
		if t.Type == TypeIncome {
			out.TotalIncome += t.Amount
		} else {
			out.TotalExpense += t.Amount
		}
	}
	out.TotalBalance = out.TotalIncome - out.TotalExpense
	return out, nil
}

// CategoryBreakdown aggregates all-time expenses by category, sorted by
// amount descending with each slice's share of the total.
func (s *Service) CategoryBreakdown(userID string) ([]CategoryShare, error) {
	all, err := s.allTransactions(userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*CategoryShare)
	var totalExpense int64
	for _, t := range all {
		if t.Type != TypeExpense {
			continue
		}
		totalExpense += t.Amount

		name, id, color := s.categoryLabel(t)
		key := id + "/" + name
		share, ok := totals[key]
		if !ok {
			share = &CategoryShare{CategoryID: id, CategoryName: name, Color: color}
			totals[key] = share
		}
		share.TotalAmount += t.Amount
	}

	breakdown := make([]CategoryShare, 0, len(totals))
	for _, share := range totals {
		if totalExpense > 0 {
			share.Percentage = roundPercent(float64(share.TotalAmount) / float64(totalExpense) * 100)
		}
		breakdown = append(breakdown, *share)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].TotalAmount > breakdown[j].TotalAmount
	})
	return breakdown, nil
}

// MonthlyTrend aggregates income and expense per month over the most
// recent months that have data, oldest first.
func (s *Service) MonthlyTrend(userID string, months int) ([]TrendPoint, error) {
	if months <= 0 {
		months = 6
	}
	all, err := s.allTransactions(userID)
	if err != nil {
		return nil, err
	}

	type bucket struct{ income, expense int64 }
	byMonth := make(map[string]*bucket)
	for _, t := range all {
		key := t.TransactionDate.Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &bucket{}
			byMonth[key] = b
		}
		if t.Type == TypeIncome {
			b.income += t.Amount
		} else {
			b.expense += t.Amount
		}
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	trend := make([]TrendPoint, 0, len(keys))
	for _, key := range keys {
		ts, _ := time.Parse("2006-01", key)
		b := byMonth[key]
		trend = append(trend, TrendPoint{
			Month:   fmt.Sprintf("%s %02d", shortMonthNames[int(ts.Month())], ts.Year()%100),
			Income:  b.income,
			Expense: b.expense,
		})
	}
	return trend, nil
}

// RecentTransactions returns the newest transactions for the dashboard.
func (s *Service) RecentTransactions(userID string, limit int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.ListTransactions(userID, limit, 0)
}

// Report builds the complete monthly report: totals, expense breakdown and
// per-day trend for the given calendar month.
func (s *Service) Report(userID string, year, month int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be 1-12")
	}
	all, err := s.allTransactions(userID)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Month:             month,
		Year:              year,
		CategoryBreakdown: []CategoryShare{},
		DailyTrend:        []DailyPoint{},
	}

	totals := make(map[string]*CategoryShare)
	type bucket struct{ income, expense int64 }
	byDay := make(map[string]*bucket)

	for _, t := range all {
		if t.TransactionDate.Year() != year || int(t.TransactionDate.Month()) != month {
			continue
		}

		day := t.TransactionDate.Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}

		if t.Type == TypeIncome {
			report.TotalIncome += t.Amount
			b.income += t.Amount
			continue
		}

		report.TotalExpense += t.Amount
		b.expense += t.Amount

		name, id, color := s.categoryLabel(t)
		key := id + "/" + name
		share, ok := totals[key]
		if !ok {
			share = &CategoryShare{CategoryID: id, CategoryName: name, Color: color}
			totals[key] = share
		}
		share.TotalAmount += t.Amount
	}

	for _, share := range totals {
		if report.TotalExpense > 0 {
			share.Percentage = roundPercent(float64(share.TotalAmount) / float64(report.TotalExpense) * 100)
		}
		report.CategoryBreakdown = append(report.CategoryBreakdown, *share)
	}
	sort.Slice(report.CategoryBreakdown, func(i, j int) bool {
		return report.CategoryBreakdown[i].TotalAmount > report.CategoryBreakdown[j].TotalAmount
	})

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		b := byDay[day]
		report.DailyTrend = append(report.DailyTrend, DailyPoint{
			Date:    day,
			Income:  b.income,
			Expense: b.expense,
		})
	}

	report.NetBalance = report.TotalIncome - report.TotalExpense
	return report, nil
}

func (s *Service) categoryLabel(t *Transaction) (name, id, color string) {
	if t.CategoryID != "" {
		if c, err := s.store.GetCategory(t.CategoryID); err == nil {
			return c.Name, c.ID, c.Color
		}
	}
	if t.Description != "" {
		return t.Description, "", "#6B7280"
	}
	return fallbackCategory, "", "#6B7280"
}

// allTransactions pulls the user's full history for aggregation. Limit
// zero means no page bound at the store layer.
func (s *Service) allTransactions(userID string) ([]*Transaction, error) {
	return s.store.ListTransactions(userID, 0, 0)
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
