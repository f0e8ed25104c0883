package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Grouped rupiah amounts: 50.000, 1.250.000, 50,000. Thousands
	// separators only; the domain has no fractional currency unit.
	groupedAmountPattern = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+`)

	// Amounts tagged with a currency prefix: Rp 50.000, Rp. 50000, IDR 50,000.
	currencyAmountPattern = regexp.MustCompile(`(?i)(?:Rp\.?|IDR)\s*(\d[\d.,]*)`)

	// Bare digit runs long enough to look like a price rather than a
	// quantity or a register number fragment.
	bareAmountPattern = regexp.MustCompile(`\d{4,}`)

	// Any numeric token on a line, grouped or bare. Used on keyword lines
	// where the trailing token is the amount.
	lineAmountPattern = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+|\d+`)
)

// ExtractAmount scans raw OCR text for the receipt's total amount in whole
// rupiah. Lines carrying a total keyword are preferred, the last such line
// winning since receipts print subtotals before the definitive total. When
// no keyword line yields a number, the largest currency-looking token in
// the whole text is used as a fallback.
func ExtractAmount(text string) (int64, bool) {
	var keywordAmount int64
	found := false

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !containsAny(lower, totalKeywords) {
			continue
		}
		if amount, ok := lastAmountToken(line); ok {
			keywordAmount = amount
			found = true
		}
	}
	if found {
		return keywordAmount, true
	}

	return largestAmountToken(text)
}

// lastAmountToken returns the final numeric token on a line, the position
// prices occupy on receipt lines.
func lastAmountToken(line string) (int64, bool) {
	tokens := lineAmountPattern.FindAllString(line, -1)
	for i := len(tokens) - 1; i >= 0; i-- {
		if amount, ok := parseAmount(tokens[i]); ok && amount > 0 {
			return amount, true
		}
	}
	return 0, false
}

// largestAmountToken finds the biggest plausible currency token anywhere in
// the text. Grouped and currency-prefixed tokens are trusted first; bare
// 4+ digit runs are a last resort.
func largestAmountToken(text string) (int64, bool) {
	var best int64
	found := false

	consider := func(token string) {
		if amount, ok := parseAmount(token); ok && amount > best {
			best = amount
			found = true
		}
	}

	for _, token := range groupedAmountPattern.FindAllString(text, -1) {
		consider(token)
	}
	for _, match := range currencyAmountPattern.FindAllStringSubmatch(text, -1) {
		consider(match[1])
	}
	if found {
		return best, true
	}

	for _, token := range bareAmountPattern.FindAllString(text, -1) {
		consider(token)
	}
	return best, found
}

// parseAmount strips thousands separators and reads the token as whole
// rupiah.
func parseAmount(token string) (int64, bool) {
	clean := strings.NewReplacer(".", "", ",", "").Replace(token)
	if clean == "" {
		return 0, false
	}
	amount, err := strconv.ParseInt(clean, 10, 64)
	if err != nil || amount < 0 {
		return 0, false
	}
	return amount, true
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
