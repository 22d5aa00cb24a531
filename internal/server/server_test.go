package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accrava/clausescan/internal/rules"
	"github.com/accrava/clausescan/internal/scanner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type scanResponse struct {
	Findings []struct {
		Category string `json:"category"`
		Severity string `json:"severity"`
		Match    string `json:"match"`
		Excerpt  string `json:"excerpt"`
	} `json:"findings"`
	Annotated string `json:"annotated"`
}

func newRouter(maxBytes int64) *gin.Engine {
	return New(scanner.New(rules.Default()), Options{MaxBytes: maxBytes}).Router()
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(0).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRules(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(0).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/rules", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var specs []rules.Spec
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &specs))
	require.Len(t, specs, 7)
	assert.Equal(t, "SLA", specs[0].Category)
	assert.Equal(t, `\bSLA\b|\bservice level\b`, specs[0].Pattern)
	assert.Equal(t, "Jurisdiction", specs[6].Category)
}

func TestScan_JSON(t *testing.T) {
	body := `{"text":"Payment terms: Net 30 invoice due. Termination for cause applies."}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(0).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp scanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Findings, 5)
	assert.Equal(t, "Termination", resp.Findings[0].Category)
	assert.Equal(t, "High", resp.Findings[0].Severity)
	assert.Equal(t, "Payment", resp.Findings[4].Category)
	assert.Equal(t, "Medium", resp.Findings[4].Severity)
	assert.Contains(t, resp.Annotated, "title='Termination - High'")
}

func TestScan_EmptyTextIsValid(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan", strings.NewReader(`{"text":""}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(0).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"findings":[],"annotated":""}`, w.Body.String())
}

func TestScan_MalformedJSON(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan", strings.NewReader(`{"text":`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(0).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestScan_TooLarge(t *testing.T) {
	router := newRouter(1024)

	body, err := json.Marshal(scanRequest{Text: strings.Repeat("a", 2048)})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, "text over the document cap")

	body, err = json.Marshal(scanRequest{Text: strings.Repeat("a", 128<<10)})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/scan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, "body cut off by the reader limit")
}

func multipartBody(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "contract.txt")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload_LossyDecode(t *testing.T) {
	body, ct := multipartBody(t, "file", []byte("Governing law \xff applies. NDA signed."))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan/upload", body)
	req.Header.Set("Content-Type", ct)
	newRouter(0).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp scanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Findings, 2)
	assert.Equal(t, "Confidentiality", resp.Findings[0].Category)
	assert.Equal(t, "Jurisdiction", resp.Findings[1].Category)
	assert.Contains(t, resp.Annotated, "�")
}

func TestUpload_MissingField(t *testing.T) {
	body, ct := multipartBody(t, "other", []byte("x"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan/upload", body)
	req.Header.Set("Content-Type", ct)
	newRouter(0).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_TooLarge(t *testing.T) {
	body, ct := multipartBody(t, "file", bytes.Repeat([]byte("a"), 2048))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan/upload", body)
	req.Header.Set("Content-Type", ct)
	newRouter(1024).ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
