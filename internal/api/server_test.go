package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/auth"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/codegen"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/complexity"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/dashboard"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/explain"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/gateway"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/guardrails"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/payment"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/platform"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/store"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/viz"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/ws"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GROQ_API_KEY", "TOGETHER_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"HUGGINGFACE_API_KEY", "HF_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func newTestRouter(t *testing.T, payments *payment.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clearProviderEnv(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := gateway.New(logger)
	plat := platform.New(gw, guardrails.NewManager(), logger)
	hub := ws.NewHub(logger)
	plat.SetWebSocketStats(func() any { return hub.Stats() })
	plat.SetBroadcaster(hub.Broadcast)

	st, err := store.Open(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	audioAgent, err := explain.NewAudioAgent(gw, t.TempDir(), logger)
	if err != nil {
		t.Fatalf("audio agent: %v", err)
	}

	if payments == nil {
		payments = payment.NewClient("", "")
	}

	server := NewServer(Options{
		Logger:         logger,
		Platform:       plat,
		Generator:      codegen.NewGenerator(gw),
		Analyzer:       complexity.NewAnalyzer(gw),
		Visualizer:     viz.NewGenerator(gw, logger),
		TextAgent:      explain.NewTextAgent(gw),
		AudioAgent:     audioAgent,
		Dashboard:      dashboard.New(),
		Hub:            hub,
		Auth:           auth.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour),
		Store:          st,
		Payments:       payments,
		AllowedOrigins: []string{"*"},
	})
	return server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func loginAdmin(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "AgenticAI2026!",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	return decode(t, rec)["access_token"].(string)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := doJSON(t, router, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "healthy" || body["platform_available"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestLoginAndProtected(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", rec.Code)
	}

	token := loginAdmin(t, router)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/protected", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/auth/protected", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("protected status = %d", rec.Code)
	}
	if got := decode(t, rec)["logged_in_as"]; got != "admin" {
		t.Errorf("logged_in_as = %v", got)
	}
}

func TestRefreshFlow(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "AgenticAI2026!",
	})
	refresh := decode(t, rec)["refresh_token"].(string)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/refresh", refresh, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", rec.Code, rec.Body.String())
	}
	access := decode(t, rec)["access_token"].(string)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/protected", access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refreshed token rejected: %d", rec.Code)
	}
}

func TestGenerateCodeFallsBackToTemplates(t *testing.T) {
	router := newTestRouter(t, nil)
	token := loginAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/generate-code", token, map[string]any{
		"problem_statement": "implement binary search in python",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["provider"] != "built-in" || body["model"] != "template-based" {
		t.Errorf("attribution = %v/%v", body["provider"], body["model"])
	}
	if body["language"] != "python" {
		t.Errorf("language = %v", body["language"])
	}

	// The workflow should show up on the dashboard.
	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/system", "", nil)
	sys := decode(t, rec)
	if sys["total_code_generations"].(float64) != 1 {
		t.Errorf("total_code_generations = %v", sys["total_code_generations"])
	}
}

func TestGenerateCodeRequiresProblem(t *testing.T) {
	router := newTestRouter(t, nil)
	token := loginAdmin(t, router)
	rec := doJSON(t, router, http.MethodPost, "/api/generate-code", token, map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	router := newTestRouter(t, nil)
	token := loginAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze-complexity", token, map[string]any{
		"code":     "def merge_sort(arr): ...",
		"language": "python",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	cplx := body["complexity"].(map[string]any)
	if cplx["time"] != "O(n log n)" {
		t.Errorf("time complexity = %v", cplx["time"])
	}
}

func TestSuggestOptimization(t *testing.T) {
	router := newTestRouter(t, nil)
	token := loginAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/suggest-optimization", token, map[string]any{
		"problem_statement": "two sum",
		"complexity":        map[string]string{"time": "O(n²)", "space": "O(1)"},
		"suggestions":       []string{"Use a hash map"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["optimized_prompt"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestVisualizeReturnsFallbackTrace(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/visualize", "", map[string]any{
		"code": "x = [5, 2, 9]",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["initial_label"] != "Code Structure (Static)" {
		t.Errorf("expected static fallback trace, got %v", body)
	}
}

func TestConversationLifecycle(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/conversations", "", map[string]string{
		"sourceCode": "print('hi')", "sourceLanguage": "python", "targetLanguage": "go",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	id := decode(t, rec)["conversation_id"].(string)

	rec = doJSON(t, router, http.MethodGet, "/api/conversations/"+id, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/conversations/"+id+"/translate", "", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("translate status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Errorf("translate body = %v", body)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/conversations/missing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing conversation status = %d", rec.Code)
	}
}

func TestStatsEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/api/platform/stats", "/api/gateway/stats", "/api/guardrails/stats"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
			continue
		}
		if decode(t, rec)["success"] != true {
			t.Errorf("%s body = %s", path, rec.Body.String())
		}
	}
}

func TestDashboardEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	body := decode(t, rec)
	agents := body["agents"].(map[string]any)
	if len(agents) != 9 {
		t.Errorf("agents = %d, want 9", len(agents))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/agents/code_generator", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("agent status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/agents/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown agent status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/activity?limit=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("activity status = %d", rec.Code)
	}
}

func TestPaymentPlans(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := doJSON(t, router, http.MethodGet, "/api/payment/plans", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	plans := decode(t, rec)["plans"].(map[string]any)
	if len(plans) != 3 {
		t.Errorf("plans = %v", plans)
	}
}

func TestCreateOrderUnconfigured(t *testing.T) {
	router := newTestRouter(t, nil)
	token := loginAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/payment/create-order", token, map[string]string{"plan": "pro"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/payment/create-order", token, map[string]string{"plan": "free"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("free plan status = %d, want 400", rec.Code)
	}
}

func razorpaySignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentActivatesSubscription(t *testing.T) {
	payments := payment.NewClient("rzp_test_key", "rzp_secret")
	router := newTestRouter(t, payments)
	token := loginAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/payment/verify", token, map[string]string{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "forged",
		"plan":                "pro",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("forged signature status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/payment/verify", token, map[string]string{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  razorpaySignature("rzp_secret", "order_1", "pay_1"),
		"plan":                "pro",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/payment/status", token, nil)
	body := decode(t, rec)
	if body["plan"] != "pro" || body["status"] != "active" {
		t.Errorf("subscription = %v", body)
	}
}

func TestRegisterWithPayment(t *testing.T) {
	payments := payment.NewClient("rzp_test_key", "rzp_secret")
	router := newTestRouter(t, payments)

	payload := map[string]any{
		"razorpay_order_id":   "order_9",
		"razorpay_payment_id": "pay_9",
		"razorpay_signature":  razorpaySignature("rzp_secret", "order_9", "pay_9"),
		"plan":                "enterprise",
		"user_data": map[string]string{
			"email":    "new@example.com",
			"password": "pw123456",
			"name":     "New User",
			"phone":    "+911234567890",
			"country":  "IN",
		},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/payment/register-with-payment", "", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	// The new account can log in.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "new@example.com", "password": "pw123456",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new account: %d", rec.Code)
	}

	// Re-registering the same email conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/payment/register-with-payment", "", payload)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate registration status = %d, want 409", rec.Code)
	}
}
