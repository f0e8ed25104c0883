package extract

import (
	"context"
	"strings"

	"github.com/financetheory/api/internal/ocr"
)

// rawTextLimit caps how much OCR text is echoed back to the caller.
const rawTextLimit = 500

// Parser orchestrates one OCR call and the four field extractors, producing
// a single Result. It is stateless; a parse is idempotent for identical
// image bytes and provider.
type Parser struct {
	gateway *ocr.Gateway
}

// NewParser creates a Parser backed by the given OCR gateway.
func NewParser(gateway *ocr.Gateway) *Parser {
	return &Parser{gateway: gateway}
}

// ParseImage runs OCR on the image with the selected provider (the gateway
// default when empty) and extracts structured receipt data from the
// returned text. Hard OCR failures produce a Result with Success=false and
// a descriptive message rather than an error; the caller always gets a
// result object it can show for manual review. No retries happen here.
func (p *Parser) ParseImage(ctx context.Context, image []byte, provider, receiptURL string) *Result {
	text, used, err := p.gateway.RecognizeText(ctx, image, provider)
	if err != nil {
		return &Result{
			Items:      []LineItem{},
			ReceiptURL: receiptURL,
			Provider:   used,
			Success:    false,
			Message:    err.Error(),
		}
	}
	if strings.TrimSpace(text) == "" {
		return &Result{
			Items:      []LineItem{},
			ReceiptURL: receiptURL,
			Provider:   used,
			Success:    false,
			Message:    "could not extract text from image",
		}
	}
	return p.FromText(text, used, receiptURL)
}

// FromText extracts structured receipt data from OCR text obtained
// elsewhere. Success is always true here: the text exists, and any extractor
// returning nothing is a soft non-finding reported through Message.
func (p *Parser) FromText(text, provider, receiptURL string) *Result {
	result := &Result{
		Items:      []LineItem{},
		RawText:    truncate(text, rawTextLimit),
		ReceiptURL: receiptURL,
		Provider:   provider,
		Success:    true,
	}

	if amount, ok := ExtractAmount(text); ok {
		result.Amount = &amount
	}
	if merchant, ok := ExtractMerchant(text); ok {
		result.MerchantName = merchant
	}
	if date, ok := ExtractDate(text); ok {
		result.TransactionDate = &date
	}
	result.Items = ExtractItems(text)

	result.Confidence = confidence(provider, result.Amount != nil)
	result.Message = message(result)

	return result
}

func message(r *Result) string {
	switch {
	case r.Amount == nil:
		return "could not detect a total amount, review before saving"
	case len(r.Items) == 0:
		return "items not detected, receipt unclear"
	default:
		return "data extracted successfully"
	}
}

// confidence follows the original scale: cloud recognition with an amount
// found rates highest, any amount found rates moderate, nothing found zero.
func confidence(provider string, amountFound bool) float64 {
	if !amountFound {
		return 0.0
	}
	if provider == ocr.ProviderCloudVision || provider == ocr.ProviderGemini {
		return 0.9
	}
	return 0.7
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
