package domain

import "time"

// TourPackage is immutable reference data owned by the catalog table.
type TourPackage struct {
	ID              int64     `json:"id"`
	Location        string    `json:"location"`
	TripID          string    `json:"trip_id"`
	PackageName     string    `json:"package_name"`
	URL             string    `json:"url"`
	Duration        int       `json:"duration"`
	TourType        string    `json:"tour_type"`
	CitiesIncluded  []string  `json:"cities_included"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"created_at"`
	Itinerary       string    `json:"itinerary_data"`
	DestinationType string    `json:"destination_type"`
	Hotel           string    `json:"hotel"` // "Included" | "Not Included"
}

// PackageFilter filters are conjunctive; nil fields are no-ops.
type PackageFilter struct {
	Location        *string
	Duration        *int
	MaxPrice        *float64
	DestinationType *string
}

type HotelPrice struct {
	Current  *float64 `json:"current"`
	Original *float64 `json:"original,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

type HotelLocation struct {
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	DistanceToCenter string   `json:"distance_to_center,omitempty"`
}

// HotelOffer is ephemeral, built per search and never persisted.
type HotelOffer struct {
	Name        string        `json:"name"`
	Rating      float64       `json:"rating"`
	RatingWord  string        `json:"rating_word,omitempty"`
	Description string        `json:"description,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	Price       HotelPrice    `json:"price"`
	Location    HotelLocation `json:"location"`
}

type HotelQuery struct {
	City          string
	ArrivalDate   string
	DepartureDate string
	Adults        int
	Children      int
	Rooms         int
	MinRating     float64
}

// Destination is an opaque searchable area returned by the hotel-data service.
type Destination struct {
	ID   string
	Type string // city | district | landmark | ...
	Name string
}

// HotelBooking is one per-city hotel selection inside a booking. Price is the
// nightly rate as relayed by the assistant, kept as text like the total cost.
type HotelBooking struct {
	Name     string `json:"name"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Price    string `json:"price,omitempty"`
}

// BookingRecord is a finalized booking, append-only once committed. Customer
// identity is carried separately from session state, never through tool
// arguments.
type BookingRecord struct {
	Reference     string                  `json:"reference"`
	PackageName   string                  `json:"package_name"`
	PackageID     string                  `json:"package_id"`
	TripStartDate string                  `json:"trip_start_date"`
	OriginCity    string                  `json:"origin_city"`
	TotalAdults   int                     `json:"total_adults"`
	TotalChildren int                     `json:"total_children"`
	TotalCost     string                  `json:"total_cost"`
	HotelBookings map[string]HotelBooking `json:"hotel_bookings,omitempty"`
}
