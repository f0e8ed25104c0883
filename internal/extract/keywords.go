package extract

import "time"

// Keyword tables for the receipt heuristics. Locale extension is a data
// change here, not a code change in the extractors.

// totalKeywords mark lines that carry a receipt total. Ordering does not
// matter; the extractors match case-insensitively by substring.
var totalKeywords = []string{
	"grand total",
	"sub total",
	"subtotal",
	"jumlah",
	"total",
}

// nonItemKeywords mark lines that look like items (trailing price) but are
// totals, payment or metadata lines, not purchases.
var nonItemKeywords = []string{
	"grand total",
	"sub total",
	"subtotal",
	"total",
	"jumlah",
	"tunai",
	"cash",
	"kembali",
	"kembalian",
	"change",
	"pajak",
	"ppn",
	"tax",
	"diskon",
	"discount",
	"service",
	"voucher",
	"debit",
	"kredit",
	"credit",
	"qris",
	"bayar",
	"dibayar",
	"payment",
	"terima kasih",
	"thank you",
	"npwp",
	"telp",
	"kasir",
}

// merchantSkipWords disqualify header lines that are addresses, phone
// numbers or transaction metadata rather than store branding.
var merchantSkipWords = []string{
	"jl.",
	"jalan",
	"telp",
	"phone",
	"fax",
	"npwp",
	"transaksi",
	"receipt",
	"struk",
	"invoice",
	"kasir",
}

// monthNames maps Indonesian and English month names (and their common
// three-letter abbreviations) to calendar months. Lookup is by lowercased
// three-letter prefix.
var monthNames = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"mei": time.May,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"agu": time.August,
	"agt": time.August,
	"aug": time.August,
	"sep": time.September,
	"okt": time.October,
	"oct": time.October,
	"nov": time.November,
	"des": time.December,
	"dec": time.December,
}
