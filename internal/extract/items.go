package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// An item line ends in a price token: "Nasi Goreng x2 25.000",
	// "Teh Botol 5000", "Ayam Bakar Rp 18.000".
	itemPricePattern = regexp.MustCompile(`^(.*?\S)\s+(?:Rp\.?\s*)?(\d{1,3}(?:[.,]\d{3})+|\d{3,})$`)

	// Quantity markers inside the description: "x2", "x 2", "2x", "2 x".
	quantityMarkerPattern = regexp.MustCompile(`(?i)(^|\s)(?:x\s?(\d{1,3})|(\d{1,3})\s?x)(\s|$)`)

	// A small leading integer is a quantity column: "1 Bread Butter Pudding".
	leadingQuantityPattern = regexp.MustCompile(`^(\d{1,2})\s+(\D.*)$`)
)

// ExtractItems segments raw OCR text into purchased line items. Each line
// with a trailing price and a name-worthy description yields one item, in
// original receipt order. Totals, payment and metadata lines are skipped,
// and price-only noise lines are dropped silently.
func ExtractItems(text string) []LineItem {
	items := []LineItem{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if containsAny(strings.ToLower(line), nonItemKeywords) {
			continue
		}
		if item, ok := parseItemLine(line); ok {
			items = append(items, item)
		}
	}

	return items
}

func parseItemLine(line string) (LineItem, bool) {
	m := itemPricePattern.FindStringSubmatch(collapseSpaces(line))
	if m == nil {
		return LineItem{}, false
	}
	name := m[1]
	price, ok := parseAmount(m[2])
	if !ok {
		return LineItem{}, false
	}

	quantity := 1
	if qm := quantityMarkerPattern.FindStringSubmatch(name); qm != nil {
		digits := qm[2]
		if digits == "" {
			digits = qm[3]
		}
		if q, err := strconv.Atoi(digits); err == nil && q > 0 {
			quantity = q
		}
		name = strings.TrimSpace(quantityMarkerPattern.ReplaceAllString(name, " "))
	} else if lm := leadingQuantityPattern.FindStringSubmatch(name); lm != nil {
		if q, err := strconv.Atoi(lm[1]); err == nil && q > 0 {
			quantity = q
			name = strings.TrimSpace(lm[2])
		}
	}

	name = strings.Trim(name, " .,;:-_*@#|")
	if name == "" || !hasLetter(name) {
		return LineItem{}, false
	}

	return LineItem{Name: name, Quantity: quantity, Price: price}, true
}

var spacesPattern = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return spacesPattern.ReplaceAllString(s, " ")
}

// ItemsTotal sums the prices of a set of items, typically the subset a user
// selected for a transaction. Pure arithmetic, no heuristics.
func ItemsTotal(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price
	}
	return total
}
