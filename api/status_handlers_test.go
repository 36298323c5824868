package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStatusHandlerReportsManifestsAfterLoad(t *testing.T) {
	router, _ := newTestAPI(t, true)
	w := doRequest(router, http.MethodGet, "/status")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body.Manifests) != 1 || body.Manifests[0] != "atlas-master" {
		t.Errorf("Manifests = %v, want [atlas-master]", body.Manifests)
	}
	if len(body.Workers) != 1 {
		t.Fatalf("len(Workers) = %d, want 1", len(body.Workers))
	}
	if backlog, ok := body.Workers[0].(float64); !ok || backlog != 0 {
		t.Errorf("Workers[0] = %v, want 0", body.Workers[0])
	}
}

func TestStatusHandlerNotModifiedWhenIfModifiedSinceIsRecent(t *testing.T) {
	router, _ := newTestAPI(t, true)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("If-Modified-Since", time.Now().Add(time.Minute).Format(http.TimeFormat))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304, body=%s", w.Code, w.Body.String())
	}
}

func TestRefreshHandlerCompletesSync(t *testing.T) {
	router, _ := newTestAPI(t, true)

	w := doRequest(router, http.MethodPost, "/refresh")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body["status"] != "completed" {
		t.Errorf("status field = %q, want completed", body["status"])
	}
}

func TestRefreshHandlerConcurrentCallsBothReturn200(t *testing.T) {
	router, _ := newTestAPI(t, true)

	results := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results <- doRequest(router, http.MethodPost, "/refresh").Code
		}()
	}

	for i := 0; i < 2; i++ {
		if code := <-results; code != http.StatusOK {
			t.Errorf("concurrent /refresh status = %d, want 200 (either \"completed\" or \"already scheduled\")", code)
		}
	}
}
