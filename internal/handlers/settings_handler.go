package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/settings"
)

// SettingsHandler handles settings requests.
type SettingsHandler struct {
	settingsMgr *settings.Manager
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(m *settings.Manager) *SettingsHandler {
	return &SettingsHandler{settingsMgr: m}
}

// UpdateSettingsRequest represents a partial settings update. Absent fields
// keep their current value.
type UpdateSettingsRequest struct {
	Currency            *string            `json:"currency" binding:"omitempty,iso4217"`
	MonthlyBudget       *float64           `json:"monthlyBudget" binding:"omitempty,gte=0"`
	AlertThreshold      *float64           `json:"alertThreshold" binding:"omitempty,gte=0"`
	BudgetAlertsEnabled *bool              `json:"budgetAlertsEnabled"`
	CategoryBudgets     map[string]float64 `json:"categoryBudgets"`
	SelectedMonth       *string            `json:"selectedMonth" binding:"omitempty,month_key"`
	ShowDelta           *bool              `json:"showDelta"`
}

// GetSettings returns the stored settings
// @Summary     Get settings
// @Description Get the current application settings
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.AppSettings "Current settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.settingsMgr.Get()})
}

// UpdateSettings applies a partial settings update
// @Summary     Update settings
// @Description Update one or more settings fields; omitted fields are unchanged
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Fields to update"
// @Success     200 {object} models.AppSettings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if req.Currency != nil {
		upper := strings.ToUpper(strings.TrimSpace(*req.Currency))
		req.Currency = &upper
	}

	updated, err := h.settingsMgr.Update(c.Request.Context(), settings.Patch{
		Currency:            req.Currency,
		MonthlyBudget:       req.MonthlyBudget,
		AlertThreshold:      req.AlertThreshold,
		BudgetAlertsEnabled: req.BudgetAlertsEnabled,
		CategoryBudgets:     req.CategoryBudgets,
		SelectedMonth:       req.SelectedMonth,
		ShowDelta:           req.ShowDelta,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": updated})
}
