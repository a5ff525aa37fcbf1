package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gagyebu/internal/cache"
	"gagyebu/internal/groups/memory"
	"gagyebu/internal/services"
)

func newSharedStoreServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := services.NewReportService(cache.NewLRUCache[*services.Session](8, time.Hour), store)
	srv := NewServer(":0", svc, store, Options{Now: fixedNow})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, store
}

func putJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeGroups(t *testing.T, rr *httptest.ResponseRecorder) groupsResponse {
	t.Helper()
	var body groupsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

func TestGroupEditing_ChangesReports(t *testing.T) {
	srv, _ := newSharedStoreServer(t)

	rr := do(t, srv, putJSON("/groups/cafe", `{"label":" 편의점 ","merchants":["편의점","편의점",""]}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeGroups(t, rr)
	require.Len(t, body.Groups, 3)
	assert.Equal(t, "cafe", body.Groups[2].Name)
	assert.Equal(t, "편의점", body.Groups[2].Label)
	assert.Equal(t, []string{"편의점"}, body.Groups[2].Merchants)

	rr = do(t, srv, putJSON("/excluded-payment-methods", `{"labels":["자유적금"]}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, []string{"자유적금"}, decodeGroups(t, rr).ExcludedPaymentMethods)

	rr = do(t, srv, httptest.NewRequest(http.MethodDelete, "/groups/twitch", nil))
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	id := upload(t, srv)

	rr = do(t, srv, httptest.NewRequest(http.MethodGet,
		"/uploads/"+id+"/payment-methods?start=2024-01-01&end=2024-01-31", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var methods struct {
		PaymentMethods []string `json:"paymentMethods"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &methods))
	assert.Contains(t, methods.PaymentMethods, "학교 계좌")

	rr = do(t, srv, postJSON("/reports",
		`{"uploadId":"`+id+`","start":"2024-01-01","end":"2024-01-31","credit":["학교 계좌"],"debitOrCash":["신한카드"]}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var report struct {
		Lines []string `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, []string{
		"식대",
		"전체 금액 : 9,000",
		"신용카드 금액 : 0",
		"체크카드 및 계좌이체 금액 : 9,000",
		"편의점",
		"전체 금액 : 3,000",
		"신용카드 금액 : 3,000",
		"체크카드 및 계좌이체 금액 : 0",
	}, report.Lines)
}

func TestGroupEditing_Errors(t *testing.T) {
	srv, _ := newSharedStoreServer(t)

	tests := []struct {
		name    string
		req     *http.Request
		status  int
		message string
	}{
		{"no merchants", putJSON("/groups/cafe", `{"label":"카페","merchants":[" "]}`), http.StatusBadRequest, "invalid merchant group"},
		{"unknown field", putJSON("/groups/cafe", `{"members":["a"]}`), http.StatusBadRequest, "invalid JSON body"},
		{"not json", putJSON("/excluded-payment-methods", `labels=a`), http.StatusBadRequest, "invalid JSON body"},
		{"unknown group", httptest.NewRequest(http.MethodDelete, "/groups/nope", nil), http.StatusNotFound, "merchant group not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, tt.req)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Contains(t, errorBody(t, rr), tt.message)
		})
	}
}

func TestExportGroups(t *testing.T) {
	srv, store := newSharedStoreServer(t)
	rr := do(t, srv, putJSON("/groups/cafe", `{"label":"카페","merchants":["스타벅스"]}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, srv, httptest.NewRequest(http.MethodGet, "/groups/export", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/yaml")
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "groups.yaml")

	path := filepath.Join(t.TempDir(), "groups.yaml")
	require.NoError(t, os.WriteFile(path, rr.Body.Bytes(), 0o600))
	loaded, err := memory.NewFromFile(path)
	require.NoError(t, err)

	want, _ := store.Groups(context.Background())
	got, _ := loaded.Groups(context.Background())
	assert.Equal(t, want, got)
}
