package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"bling_travel/internal/domain"
)

const confirmationSubject = "Your BlingDestinations Tour Package Confirmation"

// BookingService commits finalized bookings and sends the confirmation mail.
type BookingService struct {
	repo   domain.BookingRepository
	mailer domain.Mailer
}

func NewBookingService(repo domain.BookingRepository, mailer domain.Mailer) *BookingService {
	return &BookingService{repo: repo, mailer: mailer}
}

// Commit ensures the schema, inserts the record, then attempts the email when
// the session carries an address. The insert failing fails the commit; a mail
// failure is logged and swallowed, the booking stands.
func (s *BookingService) Commit(ctx context.Context, id domain.Identity, rec domain.BookingRecord) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure booking schema: %w", err)
	}
	if err := s.repo.Insert(ctx, id, rec); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if id.Email == "" || s.mailer == nil {
		return nil
	}
	if err := s.mailer.Send(ctx, id.Email, confirmationSubject, confirmationBody(id, rec)); err != nil {
		log.Warn().Err(err).Str("reference", rec.Reference).Msg("confirmation email failed")
	}
	return nil
}

func confirmationBody(id domain.Identity, rec domain.BookingRecord) string {
	name := id.Name
	if name == "" {
		name = "Valued Customer"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	b.WriteString("Thank you for booking with BlingDestinations! Here are your trip details:\n\n")
	b.WriteString("BOOKING DETAILS:\n\n")
	b.WriteString("TOUR PACKAGE:\n")
	fmt.Fprintf(&b, "Package Name: %s\n", rec.PackageName)
	fmt.Fprintf(&b, "Package ID: %s\n", rec.PackageID)
	fmt.Fprintf(&b, "Booking Reference: %s\n", rec.Reference)
	fmt.Fprintf(&b, "Trip Start Date: %s\n", rec.TripStartDate)
	fmt.Fprintf(&b, "Origin City: %s\n", rec.OriginCity)
	fmt.Fprintf(&b, "Number of Adults: %d\n", rec.TotalAdults)
	fmt.Fprintf(&b, "Number of Children: %d\n", rec.TotalChildren)
	fmt.Fprintf(&b, "Total Cost: %s\n", rec.TotalCost)

	if len(rec.HotelBookings) > 0 {
		b.WriteString("\nHOTEL BOOKINGS:\n")
		cities := make([]string, 0, len(rec.HotelBookings))
		for c := range rec.HotelBookings {
			cities = append(cities, c)
		}
		sort.Strings(cities)
		for _, c := range cities {
			h := rec.HotelBookings[c]
			price := h.Price
			if price == "" {
				price = "N/A"
			}
			fmt.Fprintf(&b, "\nCity: %s\n", c)
			fmt.Fprintf(&b, "Hotel Name: %s\n", h.Name)
			fmt.Fprintf(&b, "Check-in: %s\n", h.CheckIn)
			fmt.Fprintf(&b, "Check-out: %s\n", h.CheckOut)
			fmt.Fprintf(&b, "Price per Night: %s\n", price)
		}
	}

	b.WriteString("\nFor any queries or assistance, please feel free to contact us.\n\nBest Regards,\nBlingDestinations Team\n")
	return b.String()
}
