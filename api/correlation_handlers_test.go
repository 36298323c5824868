package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mongodb/marian/model"
)

func TestCreateCorrelationHandlerSeedsAndAppliesImmediately(t *testing.T) {
	router, api := newTestAPI(t, true)

	body, _ := json.Marshal(CreateCorrelationRequest{Word: "db", Synonym: "cluster", Closeness: 0.9})
	req := httptest.NewRequest(http.MethodPost, "/properties/atlas-master/correlations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}
	var created model.Correlation
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if created.SearchProperty != "atlas-master" {
		t.Errorf("SearchProperty = %q, want atlas-master", created.SearchProperty)
	}

	resp, err := api.coordinator.Pool().Workers()[0].Searcher.Search("db", nil, false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1 (correlation applied live: db -> cluster)", len(resp.Results))
	}
}

func TestListAndDeleteCorrelationHandlers(t *testing.T) {
	router, _ := newTestAPI(t, true)

	body, _ := json.Marshal(CreateCorrelationRequest{Word: "db", Synonym: "cluster", Closeness: 0.9})
	req := httptest.NewRequest(http.MethodPost, "/properties/atlas-master/correlations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var created model.Correlation
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	listW := doRequest(router, http.MethodGet, "/properties/atlas-master/correlations")
	if listW.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", listW.Code)
	}
	var listBody struct {
		Correlations []model.Correlation `json:"correlations"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(listBody.Correlations) != 1 {
		t.Fatalf("len(Correlations) = %d, want 1", len(listBody.Correlations))
	}

	delW := doRequest(router, http.MethodDelete, "/properties/atlas-master/correlations/"+created.ID)
	if delW.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200, body=%s", delW.Code, delW.Body.String())
	}

	delAgainW := doRequest(router, http.MethodDelete, "/properties/atlas-master/correlations/"+created.ID)
	if delAgainW.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", delAgainW.Code)
	}
}
