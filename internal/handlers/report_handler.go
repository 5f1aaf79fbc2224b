package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dompet/internal/currency"
	"dompet/internal/report"
	"dompet/internal/settings"
)

// ReportHandler handles aggregate reporting requests.
type ReportHandler struct {
	engine      *report.Engine
	settingsMgr *settings.Manager
	converter   *currency.Converter
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(engine *report.Engine, m *settings.Manager, conv *currency.Converter) *ReportHandler {
	return &ReportHandler{engine: engine, settingsMgr: m, converter: conv}
}

// SummaryResponse represents the ledger totals in the display currency
type SummaryResponse struct {
	Currency         string              `json:"currency"`
	TotalIncome      float64             `json:"total_income"`
	TotalExpense     float64             `json:"total_expense"`
	Balance          float64             `json:"balance"`
	BalanceDisplay   string              `json:"balance_display"`
	Trend            []report.TrendPoint `json:"trend"`
	TransactionCount int                 `json:"transaction_count"`
}

// TrendResponse represents a month's day-by-day balance series
type TrendResponse struct {
	Month  string    `json:"month"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Deltas []float64 `json:"deltas,omitempty"`
}

// displayCurrency resolves the requested display currency, defaulting to the
// ledger's working currency.
func (h *ReportHandler) displayCurrency(c *gin.Context) string {
	if q := strings.ToUpper(strings.TrimSpace(c.Query("currency"))); q != "" {
		return q
	}
	return h.settingsMgr.Get().Currency
}

// GetSummary returns the ledger totals
// @Summary     Ledger summary
// @Description Get total income, total expense, balance, and the running balance trend in the display currency
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       currency query string false "Display currency (defaults to the working currency)"
// @Success     200 {object} SummaryResponse "Ledger totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	target := h.displayCurrency(c)
	balance := h.engine.Balance(target)

	c.JSON(http.StatusOK, SummaryResponse{
		Currency:         target,
		TotalIncome:      h.engine.TotalIncome(target),
		TotalExpense:     h.engine.TotalExpense(target),
		Balance:          balance,
		BalanceDisplay:   h.converter.FormatDisplay(balance, target),
		Trend:            h.engine.Trend(target),
		TransactionCount: h.engine.TransactionCount(),
	})
}

// GetTrend returns a month's day-by-day balance series
// @Summary     Monthly balance trend
// @Description Get the carry-forward balance for each day of a month, optionally with day-over-day deltas
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month key YYYY-MM (defaults to the current month)"
// @Param       delta query bool false "Include day-over-day deltas"
// @Param       currency query string false "Display currency (defaults to the working currency)"
// @Success     200 {object} TrendResponse "Balance series"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/trend [get]
func (h *ReportHandler) GetTrend(c *gin.Context) {
	monthKey, err := monthKeyOrNow(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	target := h.displayCurrency(c)
	values, labels := h.engine.MonthlySeries(monthKey, target, time.Now().UTC())

	resp := TrendResponse{Month: monthKey, Labels: labels, Values: values}
	if c.Query("delta") == "true" {
		resp.Deltas = report.DeltaSeries(values)
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategories returns per-category expense totals for a month
// @Summary     Category breakdown
// @Description Get expense totals per category for a month, largest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month key YYYY-MM (defaults to the current month)"
// @Param       currency query string false "Display currency (defaults to the working currency)"
// @Success     200 {object} map[string][]report.CategoryTotal "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategories(c *gin.Context) {
	monthKey, err := monthKeyOrNow(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	target := h.displayCurrency(c)
	totals := h.engine.CategorySummary(monthKey, target)
	if totals == nil {
		totals = []report.CategoryTotal{}
	}
	c.JSON(http.StatusOK, gin.H{"month": monthKey, "currency": target, "categories": totals})
}
