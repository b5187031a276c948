package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"valet-service/internal/auth"
	"valet-service/internal/fees"
	"valet-service/internal/http/middleware"
	"valet-service/internal/model"
	"valet-service/internal/service"
	"valet-service/internal/store"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	calc, err := fees.NewCalculator(fees.PolicyThreshold)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	pricing := store.NewPricingStore(model.Pricing{HourlyRate: 35, DailyRate: 210, ValetFee: 50})
	valet := service.NewValetService(store.NewTransactionStore(), pricing, calc, 1000, 4, zerolog.Nop())

	parser := auth.NewParser(testSecret)
	token, err := parser.Sign("user-1", "staff", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	handler := NewHandler(valet, zerolog.Nop())
	router := NewRouter(handler, middleware.Auth(parser), "test", nil)
	return router, token
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func uploadCSV(t *testing.T, router *gin.Engine, token, csv string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "transactions.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	return doRequest(t, router, http.MethodPost, "/api/v1/imports", token, body, writer.FormDataContentType())
}

const importCSV = `Entry Time,Exit Time,Duration,Exit Gate,Plate No,Pay Type
2025-06-15 08:00:00,2025-06-15 10:00:00,2,Gate 1,ABC123,cash
2025-06-15 10:00:00,2025-06-15 22:00:00,12,Gate 2,XYZ789,card
2025-06-15 08:00:00,bad-time,2,Gate 1,BAD,cash
`

func TestHealthzIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/healthz", "", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/transactions", "", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/transactions", "not-a-token", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", w.Code)
	}
}

func TestImportAndSummary(t *testing.T) {
	router, token := newTestRouter(t)

	w := uploadCSV(t, router, token, importCSV)
	if w.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body %s", w.Code, w.Body.String())
	}

	var importResp struct {
		Data model.ImportResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &importResp); err != nil {
		t.Fatalf("unmarshal import response: %v", err)
	}
	if importResp.Data.Loaded != 2 || importResp.Data.Skipped != 1 {
		t.Fatalf("import result = %+v", importResp.Data)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports/summary", token, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d", w.Code)
	}

	var summaryResp struct {
		Data model.AggregateReport `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &summaryResp); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	rep := summaryResp.Data
	if rep.TotalTransactions != 2 {
		t.Errorf("total transactions = %d, want 2", rep.TotalTransactions)
	}
	// Gate 1: 2h -> 70+50. Gate 2: 12h -> 210+50.
	if rep.TotalRevenue != 380 {
		t.Errorf("total revenue = %v, want 380", rep.TotalRevenue)
	}
	if rep.HighestEarningGate.Gate != "Gate 2" {
		t.Errorf("highest earning gate = %q", rep.HighestEarningGate.Gate)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/reports/summary?shift=Morning", token, nil, "")
	if err := json.Unmarshal(w.Body.Bytes(), &summaryResp); err != nil {
		t.Fatalf("unmarshal filtered summary: %v", err)
	}
	if summaryResp.Data.TotalTransactions != 1 {
		t.Errorf("filtered total = %d, want 1", summaryResp.Data.TotalTransactions)
	}
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	router, token := newTestRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "transactions.pdf")
	part.Write([]byte("junk"))
	writer.Close()

	w := doRequest(t, router, http.MethodPost, "/api/v1/imports", token, body, writer.FormDataContentType())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestImportWithNoValidRows(t *testing.T) {
	router, token := newTestRouter(t)

	csv := "Entry Time,Exit Time,Duration,Exit Gate,Plate No,Pay Type\n" +
		"bad,bad,bad,Gate 1,AAA,cash\n"
	w := uploadCSV(t, router, token, csv)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", w.Code, w.Body.String())
	}
}

func TestTransactionLifecycle(t *testing.T) {
	router, token := newTestRouter(t)

	create := `{"entry_time":"2025-06-15T08:00:00Z","exit_time":"2025-06-15T10:00:00Z","duration":2,"exit_gate":"Gate 1","plate_no":"ABC123","pay_type":"cash"}`
	w := doRequest(t, router, http.MethodPost, "/api/v1/transactions", token, bytes.NewBufferString(create), "application/json")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var createResp struct {
		Data model.Transaction `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("unmarshal create: %v", err)
	}
	tx := createResp.Data
	if tx.ID == "" || tx.TotalFee != 120 {
		t.Fatalf("created transaction = %+v", tx)
	}

	update := `{"entry_time":"2025-06-15T08:00:00Z","exit_time":"2025-06-15T22:00:00Z","duration":8,"exit_gate":"Gate 1","plate_no":"ABC123","pay_type":"card"}`
	w = doRequest(t, router, http.MethodPut, "/api/v1/transactions/"+tx.ID, token, bytes.NewBufferString(update), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/transactions/missing", token, bytes.NewBufferString(update), "application/json")
	if w.Code != http.StatusNotFound {
		t.Fatalf("update missing: status = %d, want 404", w.Code)
	}

	del := `{"ids":["` + tx.ID + `"]}`
	w = doRequest(t, router, http.MethodDelete, "/api/v1/transactions", token, bytes.NewBufferString(del), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/transactions", token, nil, "")
	var listResp struct {
		Data []model.Transaction `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(listResp.Data) != 0 {
		t.Errorf("transactions left after delete: %+v", listResp.Data)
	}
}

func TestPricingEndpoints(t *testing.T) {
	router, token := newTestRouter(t)

	update := `{"hourly_rate":40,"daily_rate":250,"valet_fee":60}`
	w := doRequest(t, router, http.MethodPut, "/api/v1/pricing/Gate%201", token, bytes.NewBufferString(update), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("update pricing status = %d, body %s", w.Code, w.Body.String())
	}

	bad := `{"hourly_rate":-1,"daily_rate":250,"valet_fee":60}`
	w = doRequest(t, router, http.MethodPut, "/api/v1/pricing/Gate%201", token, bytes.NewBufferString(bad), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative rate status = %d, want 400", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/pricing", token, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get pricing status = %d", w.Code)
	}
	var resp struct {
		Data map[string]model.Pricing `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal pricing: %v", err)
	}
	if resp.Data["Gate 1"].HourlyRate != 40 {
		t.Errorf("pricing = %+v", resp.Data)
	}
	if _, ok := resp.Data[model.DefaultPricingKey]; !ok {
		t.Error("default pricing entry missing")
	}
}

func TestExports(t *testing.T) {
	router, token := newTestRouter(t)
	if w := uploadCSV(t, router, token, importCSV); w.Code != http.StatusCreated {
		t.Fatalf("import status = %d", w.Code)
	}

	w := doRequest(t, router, http.MethodGet, "/api/v1/exports/csv", token, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("csv export status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ABC123") {
		t.Error("csv export missing transaction data")
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/exports/xlsx", token, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("xlsx export status = %d", w.Code)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("xlsx export missing content disposition")
	}
}
