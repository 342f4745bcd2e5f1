package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"expense_tracker/internal/api"
	"expense_tracker/internal/config"
	"expense_tracker/internal/domain"
	"expense_tracker/internal/middleware"
	"expense_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeMailer records sent messages and can be told to fail
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	to      string
	subject string
	text    string
	html    string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, text, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, text: text, html: html})
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMailer) last() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
		OTPTTL:    10 * time.Minute,
	}
}

// testDB opens an isolated in-memory database with the full schema
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Expense{}))
	return db
}

// testRouter wires the same route table as cmd/server, without Redis
func testRouter(db *gorm.DB, cfg *config.Config, mailer *fakeMailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/register", api.RegisterHandler(db))
	r.POST("/login", api.LoginHandler(db, cfg, mailer))
	r.POST("/verify-otp", api.VerifyOTPHandler(db, cfg))

	accountGroup := r.Group("/")
	accountGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	accountGroup.POST("/toggle-2fa", api.ToggleTwoFactorHandler(db))
	accountGroup.PUT("/budget", api.UpdateBudgetHandler(db))
	accountGroup.PUT("/profile", api.UpdateProfileHandler(db))
	accountGroup.GET("/me", api.MeHandler(db))
	accountGroup.DELETE("/me", api.DeleteAccountHandler(db, nil))

	expenseGroup := r.Group("/api/expenses")
	expenseGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	expenseGroup.GET("", api.ListExpensesHandler(db, nil))
	expenseGroup.POST("", api.CreateExpenseHandler(db, nil))
	expenseGroup.PUT("/:id", api.UpdateExpenseHandler(db, nil))
	expenseGroup.DELETE("/:id", api.DeleteExpenseHandler(db, nil))

	return r
}

// doJSON performs one request and decodes the JSON response body
func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any, token string) (int, map[string]any) {
	t.Helper()
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if len(w.Body.Bytes()) > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

// doJSONList is doJSON for endpoints responding with a JSON array
func doJSONList(t *testing.T, r *gin.Engine, method, path string, token string) (int, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

// mustToken signs a token directly, bypassing the login flow
func mustToken(t *testing.T, userID uint, secret string) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, secret, time.Hour)
	require.NoError(t, err)
	return token
}

// registerAndLogin creates a fresh account and returns its bearer token
func registerAndLogin(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()
	status, _ := doJSON(t, r, http.MethodPost, "/register", gin.H{
		"name": name, "email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, r, http.MethodPost, "/login", gin.H{
		"email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}
