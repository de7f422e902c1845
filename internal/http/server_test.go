package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"itinera/internal/core"
	"itinera/internal/services"
	"itinera/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := storage.NewMemoryStore()
	ledger := services.NewLedgerService(store)
	trips := services.NewTripService(store, nil, ledger)
	srv := NewServer(":0", trips, ledger)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, respBody
}

func createTrip(t *testing.T, ts *httptest.Server) core.Trip {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/trips",
		`{"name":"Tokyo","currency":"JPY","members":["Me","Aki"]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create trip: status %d, body %s", resp.StatusCode, body)
	}
	var trip core.Trip
	if err := json.Unmarshal(body, &trip); err != nil {
		t.Fatalf("decode trip: %v", err)
	}
	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/trips/"+trip.ID+"/days",
		`{"day_number":1,"date":"2026-04-01"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add day: status %d, body %s", resp.StatusCode, body)
	}
	return trip
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, _ := doJSON(t, http.MethodGet, ts.URL+path, "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", path, resp.StatusCode)
		}
	}
}

func TestTripLifecycle(t *testing.T) {
	ts := newTestServer(t)
	trip := createTrip(t, ts)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/trips/"+trip.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get trip: status %d", resp.StatusCode)
	}
	var got core.Trip
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Tokyo" || len(got.Members) != 2 || len(got.Days) != 1 {
		t.Errorf("trip = %+v", got)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/trips", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("list trips: status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/trips/"+trip.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete trip: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/trips/"+trip.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted trip: status %d", resp.StatusCode)
	}
}

func TestCreateTripValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/trips", `{"name":"","members":["Me"]}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("empty name: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/trips", `not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body: status %d", resp.StatusCode)
	}
}

func TestActivityTimelineFlow(t *testing.T) {
	ts := newTestServer(t)
	trip := createTrip(t, ts)
	base := ts.URL + "/api/trips/" + trip.ID + "/days/1/activities"

	resp, body := doJSON(t, http.MethodPost, base,
		`{"time":"14:00","category":"flight","title":"Arrive NRT"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add flight: status %d, body %s", resp.StatusCode, body)
	}
	resp, body = doJSON(t, http.MethodPost, base,
		`{"category":"food","title":"Dinner","cost":"1200","payer":"`+trip.Members[0].ID+`"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add dinner: status %d, body %s", resp.StatusCode, body)
	}

	var day core.Day
	if err := json.Unmarshal(body, &day); err != nil {
		t.Fatalf("decode day: %v", err)
	}
	// A process card is injected after the leading flight, so the day
	// holds three activities and dinner starts after immigration.
	if len(day.Activities) != 3 {
		t.Fatalf("activities = %+v", day.Activities)
	}
	if day.Activities[1].Category != core.CategoryProcess {
		t.Errorf("second activity = %+v", day.Activities[1])
	}
	if day.Activities[2].Time != "15:00" {
		t.Errorf("dinner time = %q, want 15:00", day.Activities[2].Time)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/trips/"+trip.ID+"/days/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get day: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &day); err != nil {
		t.Fatalf("decode day: %v", err)
	}
	if len(day.Activities) != 3 {
		t.Errorf("stored activities = %+v", day.Activities)
	}
}

func TestActivityUpdateMoveDelete(t *testing.T) {
	ts := newTestServer(t)
	trip := createTrip(t, ts)
	base := ts.URL + "/api/trips/" + trip.ID + "/days/1/activities"

	var day core.Day
	for _, title := range []string{"A", "B"} {
		resp, body := doJSON(t, http.MethodPost, base,
			`{"category":"sightseeing","title":"`+title+`"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add %s: status %d", title, resp.StatusCode)
		}
		if err := json.Unmarshal(body, &day); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	first, second := day.Activities[0], day.Activities[1]

	resp, body := doJSON(t, http.MethodPut, base+"/"+first.ID,
		`{"category":"cafe","title":"Coffee"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d, body %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &day); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if day.Activities[0].Title != "Coffee" || day.Activities[0].Category != core.CategoryCafe {
		t.Errorf("updated = %+v", day.Activities[0])
	}

	resp, body = doJSON(t, http.MethodPost, base+"/"+second.ID+"/move", `{"to_index":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("move: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &day); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if day.Activities[0].ID != second.ID {
		t.Errorf("order after move = %+v", day.Activities)
	}

	resp, _ = doJSON(t, http.MethodDelete, base+"/"+second.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, base+"/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete unknown: status %d", resp.StatusCode)
	}
}

func TestActivityValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	trip := createTrip(t, ts)
	base := ts.URL + "/api/trips/" + trip.ID + "/days/1/activities"

	resp, _ := doJSON(t, http.MethodPost, base, `{"category":"food"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("missing title: status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, base,
		`{"category":"food","title":"Dinner","cost":"100","items":[{"name":"set","amount":"40"}]}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("item mismatch: status %d", resp.StatusCode)
	}
}

func TestLedgerEndpoint(t *testing.T) {
	ts := newTestServer(t)
	trip := createTrip(t, ts)
	base := ts.URL + "/api/trips/" + trip.ID + "/days/1/activities"

	host, guest := trip.Members[0], trip.Members[1]
	resp, body := doJSON(t, http.MethodPost, base,
		`{"category":"food","title":"Dinner","cost":"2000","payer":"`+host.ID+`","split_with":["`+host.ID+`","`+guest.ID+`"]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add dinner: status %d, body %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/trips/"+trip.ID+"/ledger", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ledger: status %d", resp.StatusCode)
	}
	var ledger ledgerResponse
	if err := json.Unmarshal(body, &ledger); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if ledger.Total.Cents != 200000 {
		t.Errorf("total = %d, want 200000", ledger.Total.Cents)
	}
	if ledger.ByCategory[core.CategoryFood].Cents != 200000 {
		t.Errorf("by category = %+v", ledger.ByCategory)
	}
	if ledger.Balances[guest.ID].Cents != 100000 {
		t.Errorf("balances = %+v", ledger.Balances)
	}
}
