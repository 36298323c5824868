package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mongodb/marian/internal/search"
)

func TestSearchHandlerReturnsStillIndexingBeforeFirstLoad(t *testing.T) {
	router, _ := newTestAPI(t, false)
	w := doRequest(router, http.MethodGet, "/search?q=connect")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var body APIError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Code != ErrorCodeStillIndexing {
		t.Errorf("Code = %q, want %q", body.Code, ErrorCodeStillIndexing)
	}
}

func TestSearchHandlerReturnsResultsAfterLoad(t *testing.T) {
	router, _ := newTestAPI(t, true)
	w := doRequest(router, http.MethodGet, "/search?q=connect")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var resp search.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].Title != "Connect to Atlas" {
		t.Errorf("Title = %q, want %q", resp.Results[0].Title, "Connect to Atlas")
	}
}

func TestSearchHandlerQueryTooLong(t *testing.T) {
	router, _ := newTestAPI(t, true)
	w := doRequest(router, http.MethodGet, "/search?q=one+two+three+four+five+six+seven+eight+nine+ten+eleven")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
	}
}
