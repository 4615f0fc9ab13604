package mysql

import (
	"context"
	"database/sql"
	"strings"

	"bling_travel/internal/domain"
)

// Catalog reads the tour_packages reference table.
type Catalog struct{ db *sql.DB }

func NewCatalog(db *sql.DB) *Catalog { return &Catalog{db: db} }

// SearchPackages applies the supplied filters conjunctively. A nil filter
// field is a no-op; location is a case-insensitive substring match, duration
// and destination type exact, price an inclusive upper bound. A store failure
// is returned as an error, never silently as an empty list.
func (c *Catalog) SearchPackages(ctx context.Context, f domain.PackageFilter) ([]domain.TourPackage, error) {
	q := searchPackagesSQL
	var args []any

	if f.Location != nil {
		q += " AND LOWER(location) LIKE LOWER(?)"
		args = append(args, "%"+*f.Location+"%")
	}
	if f.MaxPrice != nil {
		q += " AND price <= ?"
		args = append(args, *f.MaxPrice)
	}
	if f.Duration != nil {
		q += " AND duration = ?"
		args = append(args, *f.Duration)
	}
	if f.DestinationType != nil {
		q += " AND destination_type = ?"
		args = append(args, *f.DestinationType)
	}

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TourPackage
	for rows.Next() {
		var p domain.TourPackage
		var (
			tripID, url, tourType, cities sql.NullString
			itinerary, destType, hotel    sql.NullString
			createdAt                     sql.NullTime
		)
		if err := rows.Scan(
			&p.ID,
			&p.Location,
			&tripID,
			&p.PackageName,
			&url,
			&p.Duration,
			&tourType,
			&cities,
			&p.Price,
			&createdAt,
			&itinerary,
			&destType,
			&hotel,
		); err != nil {
			return nil, err
		}
		p.TripID = tripID.String
		p.URL = url.String
		p.TourType = tourType.String
		p.Itinerary = itinerary.String
		p.DestinationType = destType.String
		p.Hotel = hotel.String
		if createdAt.Valid {
			p.CreatedAt = createdAt.Time
		}
		if cities.Valid && cities.String != "" {
			p.CitiesIncluded = strings.Split(cities.String, "|")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertPackage writes one catalog row; used by the seeder only.
func (c *Catalog) UpsertPackage(ctx context.Context, p domain.TourPackage) error {
	_, err := c.db.ExecContext(ctx, upsertPackageSQL,
		p.ID,
		p.Location,
		p.TripID,
		p.PackageName,
		p.URL,
		p.Duration,
		p.TourType,
		strings.Join(p.CitiesIncluded, "|"),
		p.Price,
		p.Itinerary,
		p.DestinationType,
		p.Hotel,
	)
	return err
}
