package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/replenishment/internal/api/middleware"
	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/inventory"
	"github.com/andresuchdata/replenishment/internal/service"
)

const stockCSV = "Item,Category,Stock Level,Purchase Price,Selling Price,Lead Time\n" +
	"bolt,hardware,3000,1,2,7\n" +
	"drill,tools,60,150,220,14\n" +
	"glue,finish,1,3,6,3\n"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	svc := service.NewInventoryService(service.Options{Defaults: inventory.DefaultReplenishmentParams()}, nil)
	return NewRouter(&Services{InventoryService: svc}, RouterOptions{})
}

// uploadRequest builds a multipart POST with the file and extra form fields.
func uploadRequest(t *testing.T, target, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		part.Write([]byte(content))
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("response has no request id")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := serve(newTestRouter(), req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	rec := serve(newTestRouter(), uploadRequest(t, "/api/v1/inventory/analyze", "stock.csv", stockCSV, map[string]string{
		"safety_factor": "2",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Overview.Items != 3 {
		t.Errorf("Items = %d, want 3", result.Overview.Items)
	}
	if result.Params.SafetyFactor != 2 {
		t.Errorf("SafetyFactor = %v, want 2", result.Params.SafetyFactor)
	}
}

func TestAnalyzeEndpoint_QueryParams(t *testing.T) {
	router := newTestRouter()

	testCases := []struct {
		name   string
		target string
		fields map[string]string
		want   float64
	}{
		{"query only", "/api/v1/inventory/analyze?safety_factor=3", nil, 3},
		{"form overrides query", "/api/v1/inventory/analyze?safety_factor=3", map[string]string{"safety_factor": "2"}, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, uploadRequest(t, tc.target, "stock.csv", stockCSV, tc.fields))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var result domain.AnalysisResult
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if result.Params.SafetyFactor != tc.want {
				t.Errorf("SafetyFactor = %v, want %v", result.Params.SafetyFactor, tc.want)
			}
		})
	}
}

func TestViewEndpoints(t *testing.T) {
	router := newTestRouter()
	for _, path := range []string{"replenishment", "pareto", "warnings", "simulation"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(router, uploadRequest(t, "/api/v1/inventory/"+path, "stock.csv", stockCSV, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter()

	testCases := []struct {
		name     string
		target   string
		filename string
		content  string
		fields   map[string]string
		status   int
		kind     string
	}{
		{"no file", "/api/v1/inventory/analyze", "", "", nil, http.StatusBadRequest, "bad_request"},
		{"wrong extension", "/api/v1/inventory/analyze", "stock.txt", stockCSV, nil, http.StatusBadRequest, "unsupported_format"},
		{"broken workbook", "/api/v1/inventory/analyze", "stock.xlsx", "not a zip", nil, http.StatusBadRequest, "malformed_file"},
		{"zero holding cost", "/api/v1/inventory/analyze", "stock.csv", stockCSV, map[string]string{"holding_cost": "0"}, http.StatusBadRequest, "configuration"},
		{"zero holding cost in query", "/api/v1/inventory/analyze?holding_cost=0", "stock.csv", stockCSV, nil, http.StatusBadRequest, "configuration"},
		{"unparsable query parameter", "/api/v1/inventory/analyze?safety_factor=high", "stock.csv", stockCSV, nil, http.StatusBadRequest, "configuration"},
		{"unparsable parameter", "/api/v1/inventory/analyze", "stock.csv", stockCSV, map[string]string{"safety_factor": "high"}, http.StatusBadRequest, "configuration"},
		{"text stock", "/api/v1/inventory/analyze", "stock.csv", "Item,Stock Level\nbolt,lots\n", nil, http.StatusUnprocessableEntity, "data_type"},
		{"zero value ranking", "/api/v1/inventory/pareto", "stock.csv", "Item,Stock Level,Selling Price\nbolt,10,0\n", nil, http.StatusUnprocessableEntity, "degenerate_input"},
		{"bad export format", "/api/v1/inventory/export?format=docx", "stock.csv", stockCSV, nil, http.StatusBadRequest, "configuration"},
		{"bad export view", "/api/v1/inventory/export?view=forecast", "stock.csv", stockCSV, nil, http.StatusBadRequest, "configuration"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, uploadRequest(t, tc.target, tc.filename, tc.content, tc.fields))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			var body struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Kind != tc.kind || body.Error == "" {
				t.Errorf("body = %+v, want kind %q", body, tc.kind)
			}
		})
	}
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := serve(router, uploadRequest(t, "/api/v1/inventory/export?format=xlsx&view=full", "stock.csv", stockCSV, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "stock-full.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) < 2 || got[0] != "Inventory" {
		t.Errorf("sheets = %v", got)
	}

	rec = serve(router, uploadRequest(t, "/api/v1/inventory/export?format=pdf&view=warnings", "stock.csv", stockCSV, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("pdf export does not start with a PDF header")
	}
}

func TestColumnMapEndpoint(t *testing.T) {
	rec := serve(newTestRouter(), httptest.NewRequest(http.MethodGet, "/api/v1/inventory/column-map", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Columns map[string]string `json:"columns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(body.Columns, inventory.DefaultColumnMap()) {
		t.Errorf("columns = %v", body.Columns)
	}
}

func TestInvalidateCacheEndpoint(t *testing.T) {
	rec := serve(newTestRouter(), httptest.NewRequest(http.MethodDelete, "/api/v1/inventory/cache", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"https://a.example, https://b.example", " ", "https://c.example"})
	want := []string{"https://a.example", "https://b.example", "https://c.example"}
	if allowAll || !reflect.DeepEqual(origins, want) {
		t.Errorf("got %v allowAll=%v", origins, allowAll)
	}

	if _, allowAll := normalizeAllowedOrigins([]string{"https://a.example,*"}); !allowAll {
		t.Error("wildcard should allow all origins")
	}
}
