package app_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"bling_travel/internal/app"
	"bling_travel/internal/domain"
)

func sampleRecord() domain.BookingRecord {
	return domain.BookingRecord{
		Reference:     "11111111-2222-3333-4444-555555555555",
		PackageName:   "Bali Bliss Getaway",
		PackageID:     "1",
		TripStartDate: "2026-10-01",
		OriginCity:    "Dubai",
		TotalAdults:   2,
		TotalChildren: 1,
		TotalCost:     "3600 AED",
		HotelBookings: map[string]domain.HotelBooking{
			"Ubud":     {Name: "Ubud Garden Resort", CheckIn: "2026-10-01", CheckOut: "2026-10-04", Price: "90"},
			"Seminyak": {Name: "Seminyak Beach Hotel", CheckIn: "2026-10-04", CheckOut: "2026-10-06"},
		},
	}
}

func TestCommit_SendsConfirmation(t *testing.T) {
	repo := &fakeBookingRepo{}
	mail := &fakeMailer{}
	svc := app.NewBookingService(repo, mail)

	id := domain.Identity{Name: "Ana", Email: "ana@example.com"}
	if err := svc.Commit(context.Background(), id, sampleRecord()); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mail.sent))
	}

	m := mail.sent[0]
	if m.to != "ana@example.com" {
		t.Fatalf("unexpected recipient: %s", m.to)
	}
	for _, want := range []string{
		"Dear Ana,",
		"Bali Bliss Getaway",
		"Booking Reference: 11111111-2222-3333-4444-555555555555",
		"Total Cost: 3600 AED",
		"Hotel Name: Ubud Garden Resort",
		"Price per Night: N/A", // Seminyak has no price
	} {
		if !strings.Contains(m.body, want) {
			t.Fatalf("mail body missing %q:\n%s", want, m.body)
		}
	}
	// cities are rendered in stable order
	if strings.Index(m.body, "City: Seminyak") > strings.Index(m.body, "City: Ubud") {
		t.Fatalf("cities out of order:\n%s", m.body)
	}
}

func TestCommit_NoEmailSkipsMail(t *testing.T) {
	repo := &fakeBookingRepo{}
	mail := &fakeMailer{}
	svc := app.NewBookingService(repo, mail)

	if err := svc.Commit(context.Background(), domain.Identity{Name: "Ana"}, sampleRecord()); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("booking must persist without an address, got %d inserts", len(repo.inserted))
	}
	if len(mail.sent) != 0 {
		t.Fatalf("no mail without an address, got %d", len(mail.sent))
	}
}

func TestCommit_InsertFailure(t *testing.T) {
	repo := &fakeBookingRepo{insertErr: fmt.Errorf("deadlock found")}
	mail := &fakeMailer{}
	svc := app.NewBookingService(repo, mail)

	id := domain.Identity{Email: "ana@example.com"}
	if err := svc.Commit(context.Background(), id, sampleRecord()); err == nil {
		t.Fatal("expected error")
	}
	if len(mail.sent) != 0 {
		t.Fatal("no mail may be sent for a failed insert")
	}
}

func TestCommit_MailFailureDoesNotFailBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	mail := &fakeMailer{err: fmt.Errorf("smtp: 535 authentication failed")}
	svc := app.NewBookingService(repo, mail)

	id := domain.Identity{Email: "ana@example.com"}
	if err := svc.Commit(context.Background(), id, sampleRecord()); err != nil {
		t.Fatalf("mail failure must not fail the commit: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
}

func TestCommit_NilMailer(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := app.NewBookingService(repo, nil)

	id := domain.Identity{Email: "ana@example.com"}
	if err := svc.Commit(context.Background(), id, sampleRecord()); err != nil {
		t.Fatalf("err: %v", err)
	}
}
