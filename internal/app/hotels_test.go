package app_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"bling_travel/internal/app"
	"bling_travel/internal/domain"
)

func offerNames(offers []domain.HotelOffer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.Name
	}
	return out
}

func TestSearch_SortsByPriceMissingLast(t *testing.T) {
	client := &fakeHotelClient{
		dests: []domain.Destination{{ID: "-1", Type: "city", Name: "Rome"}},
		offers: map[string][]domain.HotelOffer{"-1": {
			{Name: "Grand Palace", Price: domain.HotelPrice{Current: pfloat(300)}},
			{Name: "Mystery Inn"},
			{Name: "Budget Stay", Price: domain.HotelPrice{Current: pfloat(150)}},
		}},
	}
	s := app.NewHotelSearch(client)

	got, err := s.Search(context.Background(), domain.HotelQuery{City: "Rome", Adults: 2})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{"Budget Stay", "Grand Palace", "Mystery Inn"}
	if !reflect.DeepEqual(offerNames(got), want) {
		t.Fatalf("order = %v, want %v", offerNames(got), want)
	}
}

func TestSearch_DeterministicForSameQuery(t *testing.T) {
	client := &fakeHotelClient{
		dests: []domain.Destination{
			{ID: "-1", Type: "city", Name: "Rome"},
			{ID: "-2", Type: "district", Name: "Trastevere"},
		},
		offers: map[string][]domain.HotelOffer{
			"-1": {
				{Name: "A", Price: domain.HotelPrice{Current: pfloat(200)}},
				{Name: "B", Price: domain.HotelPrice{Current: pfloat(200)}},
			},
			"-2": {
				{Name: "C", Price: domain.HotelPrice{Current: pfloat(100)}},
				{Name: "D"},
			},
		},
	}
	s := app.NewHotelSearch(client)
	q := domain.HotelQuery{City: "Rome", Adults: 2}

	first, err := s.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	second, err := s.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(offerNames(first), offerNames(second)) {
		t.Fatalf("order must be stable: %v vs %v", offerNames(first), offerNames(second))
	}
	// equal prices keep destination order
	if want := []string{"C", "A", "B", "D"}; !reflect.DeepEqual(offerNames(first), want) {
		t.Fatalf("order = %v, want %v", offerNames(first), want)
	}
}

func TestSearch_NoSearchableAreas(t *testing.T) {
	client := &fakeHotelClient{
		dests: []domain.Destination{
			{ID: "-9", Type: "landmark", Name: "Eiffel Tower"},
			{ID: "-10", Type: "airport", Name: "CDG"},
		},
	}
	s := app.NewHotelSearch(client)

	_, err := s.Search(context.Background(), domain.HotelQuery{City: "Paris", Adults: 1})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if client.searchCalls() != 0 {
		t.Fatalf("no hotel search may run without city/district areas, got %d", client.searchCalls())
	}
}

func TestSearch_PartialFailureStillReturns(t *testing.T) {
	client := &fakeHotelClient{
		dests: []domain.Destination{
			{ID: "-1", Type: "city", Name: "Rome"},
			{ID: "-2", Type: "district", Name: "Trastevere"},
		},
		offers:   map[string][]domain.HotelOffer{"-2": {{Name: "C", Price: domain.HotelPrice{Current: pfloat(100)}}}},
		offerErr: map[string]error{"-1": fmt.Errorf("upstream 500")},
	}
	s := app.NewHotelSearch(client)

	got, err := s.Search(context.Background(), domain.HotelQuery{City: "Rome", Adults: 2})
	if err != nil {
		t.Fatalf("one failing destination must degrade, not fail: %v", err)
	}
	if len(got) != 1 || got[0].Name != "C" {
		t.Fatalf("unexpected offers: %v", offerNames(got))
	}
}

func TestSearch_AllDestinationsFail(t *testing.T) {
	client := &fakeHotelClient{
		dests: []domain.Destination{
			{ID: "-1", Type: "city", Name: "Rome"},
			{ID: "-2", Type: "district", Name: "Trastevere"},
		},
		offerErr: map[string]error{
			"-1": fmt.Errorf("upstream 500"),
			"-2": fmt.Errorf("upstream 500"),
		},
	}
	s := app.NewHotelSearch(client)

	if _, err := s.Search(context.Background(), domain.HotelQuery{City: "Rome", Adults: 2}); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSearch_RatingFloor(t *testing.T) {
	client := &fakeHotelClient{
		dests: []domain.Destination{{ID: "-1", Type: "city", Name: "Rome"}},
		offers: map[string][]domain.HotelOffer{"-1": {
			{Name: "Low", Rating: 6.1, Price: domain.HotelPrice{Current: pfloat(50)}},
			{Name: "High", Rating: 8.7, Price: domain.HotelPrice{Current: pfloat(90)}},
		}},
	}
	s := app.NewHotelSearch(client)

	got, err := s.Search(context.Background(), domain.HotelQuery{City: "Rome", Adults: 2, MinRating: 8})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 1 || got[0].Name != "High" {
		t.Fatalf("rating floor not applied: %v", offerNames(got))
	}
}
