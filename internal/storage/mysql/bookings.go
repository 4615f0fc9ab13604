package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"bling_travel/internal/domain"
)

// Bookings is the append-only booking persistence surface.
type Bookings struct{ db *sql.DB }

func NewBookings(db *sql.DB) *Bookings { return &Bookings{db: db} }

func (b *Bookings) EnsureSchema(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, createBookingsSQL)
	return err
}

// Insert writes one booking row. The whole record lands in a single INSERT,
// so a failure leaves no partial row behind.
func (b *Bookings) Insert(ctx context.Context, id domain.Identity, rec domain.BookingRecord) error {
	var hotels any
	if len(rec.HotelBookings) > 0 {
		j, err := json.Marshal(rec.HotelBookings)
		if err != nil {
			return err
		}
		hotels = string(j)
	}
	_, err := b.db.ExecContext(ctx, insertBookingSQL,
		rec.Reference,
		nullStr(id.Name),
		nullStr(id.Email),
		nullStr(id.Phone),
		rec.PackageName,
		rec.PackageID,
		rec.TripStartDate,
		rec.OriginCity,
		rec.TotalAdults,
		rec.TotalChildren,
		rec.TotalCost,
		hotels,
	)
	return err
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
