package integration

import (
	"net/http"
	"testing"
)

func TestLedgerFlow_SetupTrackReport(t *testing.T) {
	app := setupApp(t)

	// Step 1: First-run PIN setup issues a token
	token := app.setupPIN(t, "123456")
	if token == "" {
		t.Fatal("expected non-empty token from setup")
	}

	// Step 2: Record income and expenses
	rec := app.request("POST", "/api/v1/transactions",
		`{"title":"Salary","amount":5000,"category":"Salary","type":"income","date":"2024-06-01"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/transactions",
		`{"title":"Groceries","amount":800,"category":"Food","type":"expense","date":"2024-06-02"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/transactions",
		`{"title":"Lunch","amount":200,"category":"Food","type":"expense","date":"2024-06-03"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	createResult := parseJSON(t, rec)
	lunchID := createResult["transaction"].(map[string]interface{})["id"].(string)

	// Step 3: Summary reflects the ledger
	rec = app.request("GET", "/api/v1/reports/summary", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)
	if summary["total_income"].(float64) != 5000 {
		t.Errorf("expected total_income 5000, got %v", summary["total_income"])
	}
	if summary["total_expense"].(float64) != 1000 {
		t.Errorf("expected total_expense 1000, got %v", summary["total_expense"])
	}
	if summary["balance"].(float64) != 4000 {
		t.Errorf("expected balance 4000, got %v", summary["balance"])
	}

	// Step 4: Category breakdown for June
	rec = app.request("GET", "/api/v1/reports/categories?month=2024-06", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("categories failed: %d %s", rec.Code, rec.Body.String())
	}
	categories := parseJSON(t, rec)["categories"].([]interface{})
	if len(categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(categories))
	}
	food := categories[0].(map[string]interface{})
	if food["category"] != "Food" || food["total"].(float64) != 1000 {
		t.Errorf("expected Food 1000, got %v", food)
	}

	// Step 5: Delete the lunch and watch the totals move back
	rec = app.request("DELETE", "/api/v1/transactions/"+lunchID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/reports/summary", "", token)
	summary = parseJSON(t, rec)
	if summary["total_expense"].(float64) != 800 {
		t.Errorf("expected total_expense 800 after delete, got %v", summary["total_expense"])
	}
	if summary["balance"].(float64) != 4200 {
		t.Errorf("expected balance 4200 after delete, got %v", summary["balance"])
	}

	// Step 6: Listing shows the remaining transactions newest first
	rec = app.request("GET", "/api/v1/transactions", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(data))
	}
	if data[0].(map[string]interface{})["title"] != "Groceries" {
		t.Errorf("expected Groceries first, got %v", data[0])
	}
}

func TestLedgerFlow_RequiresAuth(t *testing.T) {
	app := setupApp(t)
	app.setupPIN(t, "123456")

	for _, tc := range []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/transactions"},
		{"POST", "/api/v1/transactions"},
		{"GET", "/api/v1/reports/summary"},
		{"GET", "/api/v1/settings"},
	} {
		rec := app.request(tc.method, tc.path, "{}", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: expected 401, got %d", tc.method, tc.path, rec.Code)
		}

		rec = app.request(tc.method, tc.path, "{}", "not-a-token")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with bad token: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestLedgerFlow_LoginThenUseToken(t *testing.T) {
	app := setupApp(t)
	app.setupPIN(t, "123456")

	rec := app.request("POST", "/api/v1/auth/login", `{"pin":"123456"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	token := parseJSON(t, rec)["token"].(string)

	rec = app.request("GET", "/api/v1/settings", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with login token, got %d: %s", rec.Code, rec.Body.String())
	}
}
