package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSendsIdempotencyKey(t *testing.T) {
	var gotKey, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"ORBX","total":620}`))
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL+"/").Do(context.Background(), http.MethodPost, "/v1/market/buy", map[string]any{"symbol": "ORBX"}, "k-1")
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotKey != "k-1" || gotType != "application/json" {
		t.Fatalf("headers: key=%q type=%q", gotKey, gotType)
	}
	if out["total"] != float64(620) {
		t.Fatalf("out = %v", out)
	}
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"validation failure: insufficient funds"}`))
	}))
	c := NewClient(srv.URL)
	_, err := c.State(context.Background())
	if !IsAPIError(err) {
		t.Fatalf("got %v want APIError", err)
	}
	if apiErr := err.(*APIError); apiErr.Status != 400 || apiErr.Message != "validation failure: insufficient funds" {
		t.Fatalf("api error = %+v", apiErr)
	}

	srv.Close()
	_, err = c.State(context.Background())
	if err == nil || IsAPIError(err) {
		t.Fatalf("closed server should give a transport error, got %v", err)
	}
}
