package models

// AppSettings holds user preferences. The ledger and report engine only read
// Currency and SelectedMonth; budget fields drive the alert service.
type AppSettings struct {
	Currency            string             `json:"currency"`
	MonthlyBudget       float64            `json:"monthlyBudget"`
	AlertThreshold      float64            `json:"alertThreshold"`
	BudgetAlertsEnabled bool               `json:"budgetAlertsEnabled"`
	CategoryBudgets     map[string]float64 `json:"categoryBudgets"`
	SelectedMonth       string             `json:"selectedMonth,omitempty"`
	ShowDelta           *bool              `json:"showDelta,omitempty"`
}

// DefaultSettings returns the settings used before anything has been saved.
func DefaultSettings() AppSettings {
	return AppSettings{
		Currency:            "IDR",
		MonthlyBudget:       0,
		AlertThreshold:      0,
		BudgetAlertsEnabled: false,
		CategoryBudgets:     map[string]float64{},
	}
}
