package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dompet/internal/alerts"
	"dompet/internal/currency"
	apperrors "dompet/internal/errors"
	"dompet/internal/ledger"
	"dompet/internal/logger"
	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/settings"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	ledger      *ledger.Ledger
	settingsMgr *settings.Manager
	converter   *currency.Converter
	alerts      *alerts.Service
}

// NewTransactionHandler creates a new TransactionHandler. A nil alert service
// disables budget alert checks.
func NewTransactionHandler(l *ledger.Ledger, m *settings.Manager, conv *currency.Converter, alertSvc *alerts.Service) *TransactionHandler {
	return &TransactionHandler{ledger: l, settingsMgr: m, converter: conv, alerts: alertSvc}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	Title    string                 `json:"title" binding:"required,max=200"`
	Amount   float64                `json:"amount" binding:"required,gt=0"`
	Category string                 `json:"category" binding:"max=100"`
	Type     models.TransactionType `json:"type" binding:"required,transaction_type"`
	Date     *string                `json:"date"`
	Note     string                 `json:"note" binding:"max=500"`
	// Currency is the currency the amount was entered in. When it differs
	// from the ledger's working currency the amount is converted on the way
	// in and the original pair is kept on the record.
	Currency string `json:"currency" binding:"omitempty,iso4217"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an income or expense entry, converting foreign-currency amounts into the working currency
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		date = parsed
	}

	amount := req.Amount
	var originalCurrency string
	var originalAmount *float64

	entry := strings.ToUpper(strings.TrimSpace(req.Currency))
	working := h.settingsMgr.Get().Currency
	if entry != "" && entry != working {
		rate := h.converter.FetchRate(c.Request.Context(), entry, working)
		original := req.Amount
		originalCurrency = entry
		originalAmount = &original
		amount = req.Amount * rate
	}

	tx, err := h.ledger.Add(c.Request.Context(), ledger.CreateInput{
		Title:    req.Title,
		Amount:   amount,
		Category: req.Category,
		Type:     req.Type,
		Date:     date,
		Note:     req.Note,
	}, originalCurrency, originalAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.alerts != nil {
		if _, checkErr := h.alerts.Check(c.Request.Context()); checkErr != nil {
			logger.Get().Warnw("budget alert check failed", "error", checkErr.Error())
		}
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetTransactions lists transactions, newest first
// @Summary     List transactions
// @Description Get the ledger's transactions, newest first, with pagination
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid pagination parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	req.Defaults()

	all := h.ledger.Recent(h.ledger.Len())
	page := pagination.Slice(all, req)
	c.JSON(http.StatusOK, pagination.NewPageResponse(page, req.Page, req.PageSize, int64(len(all))))
}

// GetRecentTransactions returns the most recent transactions
// @Summary     Recent transactions
// @Description Get the most recently dated transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of transactions (default 5)"
// @Success     200 {object} map[string][]models.Transaction "Recent transactions"
// @Failure     400 {object} ErrorResponse "Invalid limit"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/recent [get]
func (h *TransactionHandler) GetRecentTransactions(c *gin.Context) {
	limit, err := parseLimit(c, "limit", 5)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": h.ledger.Recent(limit)})
}

// DeleteTransaction removes a transaction by id
// @Summary     Delete a transaction
// @Description Delete the transaction with the given id
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	deleted, err := h.ledger.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrTransactionNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}
