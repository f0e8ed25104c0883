package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/financetheory/api/internal/finance"
)

// maxUploadSize bounds receipt uploads; phone photos compress well below
// this.
const maxUploadSize = int64(10 << 20) // 10MB

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseDate accepts date-only and RFC3339 timestamps from clients.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// --- OCR ---

func (s *Server) handleProviderInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gateway.Info())
}

// handleProcessReceipt accepts a multipart receipt upload, stores the file
// and runs the extraction pipeline. The response is always a result
// object; OCR failures surface as success=false, not as HTTP errors.
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid file type, allowed: jpg, jpeg, png, pdf")
		return
	}
	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "file too large, maximum size: 10MB")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error reading file")
		return
	}

	user := currentUser(r)

	// Upload is best-effort: a storage outage must not block extraction,
	// the receipt URL just stays empty.
	var receiptURL string
	if s.storage != nil {
		name := fmt.Sprintf("%s/%d%s", user.ID, time.Now().UnixNano(), ext)
		receiptURL, err = s.storage.Save(name, data, contentType)
		if err != nil {
			slog.Warn("Receipt upload failed", "filename", header.Filename, "error", err)
			receiptURL = ""
		}
	}

	provider := r.FormValue("provider")
	result := s.parser.ParseImage(r.Context(), data, provider, receiptURL)
	if !result.Success {
		slog.Warn("Receipt scan failed", "filename", header.Filename, "provider", result.Provider, "message", result.Message)
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExtractText runs extraction over OCR text the client already has.
func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "error parsing form")
		return
	}
	text := r.FormValue("text")
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "ocr text cannot be empty")
		return
	}

	result := s.parser.FromText(text, "", r.FormValue("receipt_url"))
	writeJSON(w, http.StatusOK, result)
}

// --- Transactions ---

type transactionRequest struct {
	Type            string `json:"type"`
	Amount          int64  `json:"amount"`
	CategoryID      string `json:"category_id"`
	Description     string `json:"description"`
	MerchantName    string `json:"merchant_name"`
	TransactionDate string `json:"transaction_date"`
	ReceiptURL      string `json:"receipt_url"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := finance.TransactionInput{
		Type:         req.Type,
		Amount:       req.Amount,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		MerchantName: req.MerchantName,
		ReceiptURL:   req.ReceiptURL,
	}
	if req.TransactionDate != "" {
		date, err := parseDate(req.TransactionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid transaction_date")
			return
		}
		input.TransactionDate = &date
	}

	t, err := s.finance.CreateTransaction(currentUser(r).ID, input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := s.finance.ListTransactions(currentUser(r).ID, limit, offset)
	if err != nil {
		slog.Error("Error listing transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.finance.GetTransaction(currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type transactionUpdateRequest struct {
	Type            *string `json:"type"`
	Amount          *int64  `json:"amount"`
	CategoryID      *string `json:"category_id"`
	Description     *string `json:"description"`
	MerchantName    *string `json:"merchant_name"`
	TransactionDate *string `json:"transaction_date"`
	ReceiptURL      *string `json:"receipt_url"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := finance.TransactionUpdate{
		Type:         req.Type,
		Amount:       req.Amount,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		MerchantName: req.MerchantName,
		ReceiptURL:   req.ReceiptURL,
	}
	if req.TransactionDate != nil {
		date, err := parseDate(*req.TransactionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid transaction_date")
			return
		}
		update.TransactionDate = &date
	}

	t, err := s.finance.UpdateTransaction(currentUser(r).ID, r.PathValue("id"), update)
	if err != nil {
		if errors.Is(err, finance.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.finance.DeleteTransaction(currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	if err := s.finance.DeleteAllTransactions(currentUser(r).ID); err != nil {
		slog.Error("Error deleting transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Categories ---

type categoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.finance.ListCategories(currentUser(r).ID)
	if err != nil {
		slog.Error("Error listing categories", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.finance.CreateCategory(currentUser(r).ID, req.Name, req.Icon, req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.finance.DeleteCategory(currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "category not found or not deletable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Dashboard ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.finance.Summary(currentUser(r).ID)
	if err != nil {
		slog.Error("Error building summary", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.finance.CategoryBreakdown(currentUser(r).ID)
	if err != nil {
		slog.Error("Error building breakdown", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	trend, err := s.finance.MonthlyTrend(currentUser(r).ID, months)
	if err != nil {
		slog.Error("Error building trend", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recent, err := s.finance.RecentTransactions(currentUser(r).ID, limit)
	if err != nil {
		slog.Error("Error listing recent transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, recent)
}

// --- Reports ---

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year is required")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month is required")
		return
	}

	report, err := s.finance.Report(currentUser(r).ID, year, month)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}
