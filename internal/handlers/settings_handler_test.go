package handlers

import (
	"context"
	"net/http"
	"testing"

	"dompet/internal/settings"
)

func TestSettingsHandler_GetSettings(t *testing.T) {
	t.Run("returns defaults before anything is saved", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := doRequest(env.router, "GET", "/settings", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		s := result["settings"].(map[string]interface{})
		if s["currency"] != "IDR" {
			t.Errorf("expected default currency IDR, got %v", s["currency"])
		}
		if s["budgetAlertsEnabled"] != false {
			t.Errorf("expected alerts disabled by default, got %v", s["budgetAlertsEnabled"])
		}
	})
}

func TestSettingsHandler_UpdateSettings(t *testing.T) {
	t.Run("applies a partial update and persists it", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := doRequest(env.router, "PUT", "/settings",
			`{"currency":"usd","monthlyBudget":5000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		s := result["settings"].(map[string]interface{})
		if s["currency"] != "USD" {
			t.Errorf("expected currency normalized to USD, got %v", s["currency"])
		}
		if s["monthlyBudget"].(float64) != 5000 {
			t.Errorf("expected monthlyBudget 5000, got %v", s["monthlyBudget"])
		}

		// A fresh manager over the same store sees the saved values.
		fresh := settings.NewManager(env.store)
		loaded, err := fresh.Load(context.Background())
		if err != nil {
			t.Fatalf("reload settings: %v", err)
		}
		if loaded.Currency != "USD" || loaded.MonthlyBudget != 5000 {
			t.Errorf("expected persisted USD/5000, got %+v", loaded)
		}
	})

	t.Run("omitted fields keep their values", func(t *testing.T) {
		env := newTestEnv(t, nil)

		doRequest(env.router, "PUT", "/settings", `{"monthlyBudget":5000}`)
		rec := doRequest(env.router, "PUT", "/settings", `{"alertThreshold":4000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		s := parseJSON(t, rec)["settings"].(map[string]interface{})
		if s["monthlyBudget"].(float64) != 5000 {
			t.Errorf("expected monthlyBudget to survive, got %v", s["monthlyBudget"])
		}
		if s["alertThreshold"].(float64) != 4000 {
			t.Errorf("expected alertThreshold 4000, got %v", s["alertThreshold"])
		}
	})

	t.Run("returns 400 on an unknown currency code", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := doRequest(env.router, "PUT", "/settings", `{"currency":"ZZZ"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on a malformed month key", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := doRequest(env.router, "PUT", "/settings", `{"selectedMonth":"2024/06"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on a negative budget", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := doRequest(env.router, "PUT", "/settings", `{"monthlyBudget":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
