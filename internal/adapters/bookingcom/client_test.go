package bookingcom_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bling_travel/internal/adapters/bookingcom"
	"bling_travel/internal/domain"
)

func TestClient_SearchDestinations_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data": []map[string]any{
					{"dest_id": "-782831", "dest_type": "city", "name": "Dubai"},
					{"dest_id": "929", "dest_type": "district", "name": "Dubai Marina"},
				},
			})
		}
	}))
	defer ts.Close()

	cl, err := bookingcom.New(ts.URL, "test-key", "AED", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := cl.SearchDestinations(ctx, "Dubai")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].ID != "-782831" || got[1].Type != "district" {
		t.Fatalf("unexpected destinations: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_SearchDestinations_StatusFalse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "rate limit exceeded"})
	}))
	defer ts.Close()

	cl, _ := bookingcom.New(ts.URL, "test-key", "AED", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := cl.SearchDestinations(ctx, "Dubai"); err == nil {
		t.Fatalf("expected error for status=false envelope")
	}
}

func TestClient_SearchHotels_QueryAndMapping(t *testing.T) {
	var gotQuery map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"hotels": []map[string]any{
					{
						"accessibilityLabel": "Beachfront resort with pool",
						"property": map[string]any{
							"name":               "Jumeirah Stay",
							"reviewScore":        8.7,
							"reviewScoreWord":    "Fabulous",
							"photoUrls":          []string{"https://img.example/1.jpg"},
							"currency":           "AED",
							"latitude":           25.2,
							"longitude":          55.3,
							"distanceFromCenter": 2.4,
							"priceBreakdown": map[string]any{
								"grossPrice": map[string]any{"value": 450.0},
							},
						},
					},
				},
			},
		})
	}))
	defer ts.Close()

	cl, _ := bookingcom.New(ts.URL, "test-key", "AED", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	offers, err := cl.SearchHotels(ctx, "-782831", domain.HotelQuery{
		City: "Dubai", ArrivalDate: "2025-03-01", DepartureDate: "2025-03-05",
		Adults: 2, Children: 2, Rooms: 1,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// children encoded as one age placeholder per child
	if got := gotQuery["children_age"]; len(got) != 1 || got[0] != "0,0" {
		t.Fatalf("children_age = %v", got)
	}
	if got := gotQuery["dest_id"]; len(got) != 1 || got[0] != "-782831" {
		t.Fatalf("dest_id = %v", got)
	}
	if got := gotQuery["currency_code"]; len(got) != 1 || got[0] != "AED" {
		t.Fatalf("currency_code = %v", got)
	}

	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	o := offers[0]
	if o.Name != "Jumeirah Stay" || o.Rating != 8.7 || o.RatingWord != "Fabulous" {
		t.Fatalf("unexpected offer: %+v", o)
	}
	if o.Price.Current == nil || *o.Price.Current != 450 || o.Price.Original != nil {
		t.Fatalf("unexpected price: %+v", o.Price)
	}
	if o.Location.DistanceToCenter != "2.4" {
		t.Fatalf("distance = %q", o.Location.DistanceToCenter)
	}
}
