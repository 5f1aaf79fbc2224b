package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"dompet/internal/alerts"
	"dompet/internal/auth"
	"dompet/internal/currency"
	"dompet/internal/handlers"
	"dompet/internal/ledger"
	"dompet/internal/logger"
	"dompet/internal/middleware"
	"dompet/internal/report"
	"dompet/internal/settings"
	"dompet/internal/storage"
	"dompet/internal/testutil"
	"dompet/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Store  *storage.GormStore
	Ledger *ledger.Ledger
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp wires the full stack, auth middleware included, over an isolated
// in-memory store. The converter has no rate source, so foreign pairs resolve
// to parity, the same as running fully offline.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	settingsMgr := settings.NewManager(store)
	if _, err := settingsMgr.Load(ctx); err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	l := ledger.New(store)
	if err := l.Load(ctx); err != nil {
		t.Fatalf("failed to load ledger: %v", err)
	}

	converter := currency.NewConverter(nil)
	engine := report.NewEngine(l, converter)
	alertService := alerts.NewService(store, settingsMgr, engine, alerts.LogNotifier{})

	authHandler := handlers.NewAuthHandler(auth.NewService(store))
	transactionHandler := handlers.NewTransactionHandler(l, settingsMgr, converter, alertService)
	reportHandler := handlers.NewReportHandler(engine, settingsMgr, converter)
	settingsHandler := handlers.NewSettingsHandler(settingsMgr)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.POST("/setup", authHandler.Setup)
	authRoutes.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/recent", transactionHandler.GetRecentTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/trend", reportHandler.GetTrend)
	reports.GET("/categories", reportHandler.GetCategories)

	settingsRoutes := protected.Group("/settings")
	settingsRoutes.GET("", settingsHandler.GetSettings)
	settingsRoutes.PUT("", settingsHandler.UpdateSettings)

	return &testApp{Store: store, Ledger: l, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// setupPIN performs first-run PIN setup and returns the issued token.
func (app *testApp) setupPIN(t *testing.T, pin string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/auth/setup", `{"pin":"`+pin+`"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}
