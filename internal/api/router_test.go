package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/session"
	"github.com/MikeSquared-Agency/Resilience/internal/store"
)

const testAdminToken = "admin-secret"

func setupRouter(t *testing.T) (http.Handler, *session.Session) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.New(catalog.Default(), store.NewPersister(store.NewMemoryBlobStore(), "test"), nil, nil, logger)
	sess.Open(context.Background(), "")
	r := NewRouter(sess, Options{
		ShareBaseURL:      "https://example.org/assess",
		AdminToken:        testAdminToken,
		RequestsPerMinute: 1000,
	}, logger)
	return r, sess
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) session.View {
	t.Helper()
	var v session.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func metricValue(v session.View, id string) int {
	for _, it := range v.Snapshot.Items {
		if it.ID == id {
			return it.Value
		}
	}
	return -1
}

func TestCatalogEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "GET", "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Metrics, catalog.Default().Len())
	assert.Equal(t, catalog.Groups(), resp.Groups)
}

func TestGetAssessmentDefaults(t *testing.T) {
	r, sess := setupRouter(t)

	w := doRequest(t, r, "GET", "/api/v1/assessment", "")
	require.Equal(t, http.StatusOK, w.Code)

	v := decodeView(t, w)
	assert.Equal(t, sess.ID().String(), v.SessionID)
	assert.Equal(t, store.OriginDefaults, v.Origin)
	assert.InDelta(t, 51.5, v.Result.Composite, 1e-9)
	assert.Equal(t, 52, v.Result.CompositeRounded)
	assert.Equal(t, 21, v.Result.RecoveryReduction)
	assert.Equal(t, 49, v.Result.StressIndex)
	assert.Contains(t, w.Body.String(), `"cer":51.5`)
}

func TestSetMetric(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "PUT", "/api/v1/assessment/metrics/autonomy", `{"value":150}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, metricValue(decodeView(t, w), "autonomy"))

	w = doRequest(t, r, "PUT", "/api/v1/assessment/metrics/skills", `{"value":-5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, metricValue(decodeView(t, w), "skills"))
}

func TestSetMetricErrors(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown id", "/api/v1/assessment/metrics/morale", `{"value":10}`, http.StatusNotFound},
		{"fractional value", "/api/v1/assessment/metrics/skills", `{"value":1.5}`, http.StatusBadRequest},
		{"missing value", "/api/v1/assessment/metrics/skills", `{}`, http.StatusBadRequest},
		{"bad json", "/api/v1/assessment/metrics/skills", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, "PUT", tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestSetWeight(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "PUT", "/api/v1/assessment/weights/capacity", `{"value":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	v := decodeView(t, w)
	require.NotNil(t, v.Snapshot.Weights)
	assert.Equal(t, 0.0, v.Snapshot.Weights.CapacityWeight)
	assert.InDelta(t, 48.0, v.Result.Composite, 1e-9)

	w = doRequest(t, r, "PUT", "/api/v1/assessment/weights/morale", `{"value":0.3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, "PUT", "/api/v1/assessment/weights/capacity", `{"value":"high"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetContext(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "PUT", "/api/v1/assessment/context", `{"teamName":"SRE","department":"Infra"}`)
	require.Equal(t, http.StatusOK, w.Code)
	v := decodeView(t, w)
	require.NotNil(t, v.Snapshot.Context)
	assert.Equal(t, "SRE", v.Snapshot.Context.TeamName)
	assert.Equal(t, "Infra", v.Snapshot.Context.Department)
}

func TestResetRequiresAdmin(t *testing.T) {
	r, _ := setupRouter(t)
	doRequest(t, r, "PUT", "/api/v1/assessment/metrics/autonomy", `{"value":90}`)

	w := doRequest(t, r, "POST", "/api/v1/assessment/reset", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, "POST", "/api/v1/assessment/reset", "", "Authorization", "Bearer "+testAdminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45, metricValue(decodeView(t, w), "autonomy"))
}

func TestShareAndPreview(t *testing.T) {
	r, sess := setupRouter(t)
	doRequest(t, r, "PUT", "/api/v1/assessment/metrics/autonomy", `{"value":80}`)

	w := doRequest(t, r, "GET", "/api/v1/assessment/share", "")
	require.Equal(t, http.StatusOK, w.Code)
	var share ShareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &share))
	assert.Equal(t, "https://example.org/assess#"+share.Token, share.URL)

	body, _ := json.Marshal(PreviewRequest{URL: share.URL})
	w = doRequest(t, r, "POST", "/api/v1/share/preview", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	var preview PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Equal(t, sess.View().Snapshot, preview.Snapshot)

	body, _ = json.Marshal(PreviewRequest{Token: share.Token})
	w = doRequest(t, r, "POST", "/api/v1/share/preview", string(body))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPreviewErrors(t *testing.T) {
	r, sess := setupRouter(t)
	before := sess.View()

	w := doRequest(t, r, "POST", "/api/v1/share/preview", `{"token":"not-a-token"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(t, r, "POST", "/api/v1/share/preview", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, "POST", "/api/v1/share/preview", `{"url":"https://example.org/assess"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, before, sess.View())
}

func TestExportCSV(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, "GET", "/api/v1/assessment/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	assert.Len(t, lines, 1+catalog.Default().Len())
	assert.True(t, strings.HasPrefix(lines[0], "teamName,department,"))
}

func TestMetricsRouterHealth(t *testing.T) {
	r := NewMetricsRouter()

	w := doRequest(t, r, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = doRequest(t, r, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
