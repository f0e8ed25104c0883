package extract

import "time"

// LineItem is one purchased entry read from a receipt. Price is the line's
// total contribution exactly as printed; OCR noise means it is not
// guaranteed to equal quantity times a unit price.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Result is the structured outcome of one receipt parse. It is constructed
// fresh per invocation and never mutated after being returned. Success
// reports whether OCR itself produced text; individual fields may still be
// absent on success, which is normal and non-fatal.
type Result struct {
	Amount          *int64     `json:"amount"`
	MerchantName    string     `json:"merchant_name,omitempty"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
	Items           []LineItem `json:"items"`
	RawText         string     `json:"raw_text,omitempty"`
	Confidence      float64    `json:"confidence"`
	ReceiptURL      string     `json:"receipt_url,omitempty"`
	Success         bool       `json:"success"`
	Message         string     `json:"message"`
	Provider        string     `json:"ocr_provider,omitempty"`
}
