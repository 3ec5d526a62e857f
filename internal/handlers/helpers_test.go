package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/crucial707/habitguard/internal/blob"
	"github.com/crucial707/habitguard/internal/models"
	"github.com/crucial707/habitguard/internal/store"
)

// requestWithChiURLParams builds a request carrying chi URL params so
// handlers can be tested without a full router.
func requestWithChiURLParams(method, target string, body []byte, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func newTestStore(t *testing.T, sched models.Schedule) *store.Store {
	t.Helper()
	st := store.New(blob.NewMemory())
	if sched != nil {
		if err := st.Put(sched); err != nil {
			t.Fatalf("seed schedule: %v", err)
		}
	}
	return st
}
