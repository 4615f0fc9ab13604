package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bling_travel/internal/adapters/observability"
	"bling_travel/internal/domain"
)

const (
	ToolSearchPackages = "search_packages"
	ToolSearchHotels   = "search_hotels"
	ToolRecordBooking  = "record_booking"
)

// param is the registry's internal argument spec: the declared type plus the
// constraints checked before dispatch.
type param struct {
	typ      string // string | integer | number | object
	desc     string
	required bool
	min      *float64 // inclusive lower bound
	def      any
}

func minOf(v float64) *float64 { return &v }

var toolParams = map[string]map[string]param{
	ToolSearchPackages: {
		"location":         {typ: "string", desc: "Name of the destination (city, country or region)"},
		"duration":         {typ: "integer", desc: "Number of days for the tour", min: minOf(1)},
		"price":            {typ: "number", desc: "Maximum price per person", min: minOf(math.SmallestNonzeroFloat64)},
		"destination_type": {typ: "string", desc: "Type of destination (Beach/Island, Wildlife/Nature, Culture, Heritage, Shopping, Other)"},
	},
	ToolSearchHotels: {
		"city":           {typ: "string", desc: "City to search hotels in", required: true},
		"arrival_date":   {typ: "string", desc: "Check-in date, YYYY-MM-DD", required: true},
		"departure_date": {typ: "string", desc: "Check-out date, YYYY-MM-DD", required: true},
		"adults":         {typ: "integer", desc: "Number of adult guests", required: true, min: minOf(1)},
		"children":       {typ: "integer", desc: "Number of children", min: minOf(0), def: 0},
		"rooms":          {typ: "integer", desc: "Number of rooms", min: minOf(1), def: 1},
		"min_rating":     {typ: "number", desc: "Minimum review score", min: minOf(0), def: 0.0},
	},
	ToolRecordBooking: {
		"package_name":    {typ: "string", desc: "Name of the booked package", required: true},
		"package_id":      {typ: "string", desc: "Package ID", required: true},
		"trip_start_date": {typ: "string", desc: "Start date of the trip", required: true},
		"origin_city":     {typ: "string", desc: "Origin city of the trip", required: true},
		"total_adults":    {typ: "integer", desc: "Number of adults in the trip", required: true, min: minOf(1)},
		"total_children":  {typ: "integer", desc: "Number of children in the trip", min: minOf(0), def: 0},
		"total_cost":      {typ: "string", desc: "Total cost of the trip", required: true},
		"hotel_bookings":  {typ: "object", desc: "Hotel bookings keyed by city: hotel name, check-in date, check-out date, price per night"},
	},
}

var toolDescriptions = map[string]string{
	ToolSearchPackages: "Search for available tour packages by location, destination type, maximum price per person, and duration. Returns package details including name, cities included, itinerary, and URL.",
	ToolSearchHotels:   "Search for available hotels in a city for a stay window and party size. Results are sorted cheapest first.",
	ToolRecordBooking:  "Record the finalized booking. Call exactly once per completed booking; never pass customer name, email or mobile number.",
}

// Registry exposes the three callable operations to the dialogue engine.
// Dispatch binds the session's identity into the booking commit, so identity
// never travels through model-visible tool arguments.
type Registry struct {
	catalog  domain.PackageCatalog
	hotels   *HotelSearch
	bookings *BookingService
}

func NewRegistry(catalog domain.PackageCatalog, hotels *HotelSearch, bookings *BookingService) *Registry {
	return &Registry{catalog: catalog, hotels: hotels, bookings: bookings}
}

// Schemas declares every registered tool for the model provider.
func (r *Registry) Schemas() []domain.ToolSchema {
	names := make([]string, 0, len(toolParams))
	for n := range toolParams {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]domain.ToolSchema, 0, len(names))
	for _, n := range names {
		params := make(map[string]domain.ToolParam, len(toolParams[n]))
		for pn, p := range toolParams[n] {
			params[pn] = domain.ToolParam{Type: p.typ, Description: p.desc, Required: p.required}
		}
		out = append(out, domain.ToolSchema{Name: n, Description: toolDescriptions[n], Params: params})
	}
	return out
}

// Dispatch validates the call and runs the tool. Whatever happens, the result
// is a structured payload for the model to read: validation problems and
// upstream outages come back as facts, not as errors crossing the boundary.
func (r *Registry) Dispatch(ctx context.Context, sess *domain.Conversation, call domain.ToolCall) map[string]any {
	specs, ok := toolParams[call.Name]
	if !ok {
		observability.ObserveTool(call.Name, "invalid")
		return errPayload(fmt.Sprintf("unknown tool %q", call.Name))
	}
	args, err := validateArgs(specs, call.Args)
	if err != nil {
		observability.ObserveTool(call.Name, "invalid")
		return errPayload("invalid arguments: " + err.Error())
	}

	switch call.Name {
	case ToolSearchPackages:
		return r.searchPackages(ctx, args)
	case ToolSearchHotels:
		return r.searchHotels(ctx, args)
	default:
		return r.recordBooking(ctx, sess.Identity, args)
	}
}

func (r *Registry) searchPackages(ctx context.Context, args map[string]any) map[string]any {
	var f domain.PackageFilter
	if v, ok := args["location"]; ok {
		s := v.(string)
		f.Location = &s
	}
	if v, ok := args["duration"]; ok {
		d := int(v.(float64))
		f.Duration = &d
	}
	if v, ok := args["price"]; ok {
		p := v.(float64)
		f.MaxPrice = &p
	}
	if v, ok := args["destination_type"]; ok {
		s := v.(string)
		f.DestinationType = &s
	}

	pkgs, err := r.catalog.SearchPackages(ctx, f)
	if err != nil {
		log.Warn().Err(err).Msg("package catalog lookup failed")
		observability.ObserveTool(ToolSearchPackages, "unavailable")
		return map[string]any{"status": "unavailable", "message": "the tour package catalog is currently unreachable"}
	}
	observability.ObserveTool(ToolSearchPackages, "ok")
	return map[string]any{"packages": jsonify(pkgs)}
}

func (r *Registry) searchHotels(ctx context.Context, args map[string]any) map[string]any {
	q := domain.HotelQuery{
		City:          args["city"].(string),
		ArrivalDate:   args["arrival_date"].(string),
		DepartureDate: args["departure_date"].(string),
		Adults:        int(args["adults"].(float64)),
		Children:      int(args["children"].(float64)),
		Rooms:         int(args["rooms"].(float64)),
		MinRating:     args["min_rating"].(float64),
	}

	offers, err := r.hotels.Search(ctx, q)
	if errors.Is(err, domain.ErrUnavailable) {
		observability.ObserveTool(ToolSearchHotels, "unavailable")
		return map[string]any{"status": "unavailable", "message": "no hotels found for " + q.City}
	}
	if err != nil {
		observability.ObserveTool(ToolSearchHotels, "error")
		return errPayload("hotel search failed: " + err.Error())
	}
	observability.ObserveTool(ToolSearchHotels, "ok")
	return map[string]any{"hotels": jsonify(offers)}
}

func (r *Registry) recordBooking(ctx context.Context, id domain.Identity, args map[string]any) map[string]any {
	rec := domain.BookingRecord{
		Reference:     uuid.NewString(),
		PackageName:   args["package_name"].(string),
		PackageID:     args["package_id"].(string),
		TripStartDate: args["trip_start_date"].(string),
		OriginCity:    args["origin_city"].(string),
		TotalAdults:   int(args["total_adults"].(float64)),
		TotalChildren: int(args["total_children"].(float64)),
		TotalCost:     args["total_cost"].(string),
	}
	if v, ok := args["hotel_bookings"]; ok {
		hb, err := toHotelBookings(v)
		if err != nil {
			observability.ObserveTool(ToolRecordBooking, "invalid")
			return errPayload("invalid arguments: " + err.Error())
		}
		rec.HotelBookings = hb
	}

	if err := r.bookings.Commit(ctx, id, rec); err != nil {
		log.Error().Err(err).Str("reference", rec.Reference).Msg("booking commit failed")
		observability.ObserveTool(ToolRecordBooking, "error")
		return errPayload("the booking could not be saved; please apologize and offer to try again")
	}
	observability.ObserveTool(ToolRecordBooking, "ok")
	return map[string]any{"status": "confirmed", "reference": rec.Reference}
}

// ---- argument validation ----

// validateArgs checks presence, type and bounds, applies defaults, and
// normalizes numbers to float64 so tool code can assert shapes safely.
func validateArgs(specs map[string]param, raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(specs))
	for name, p := range specs {
		v, ok := raw[name]
		if !ok || v == nil {
			if p.required {
				return nil, fmt.Errorf("missing required argument %q", name)
			}
			if p.def != nil {
				out[name] = normalizeDefault(p.def)
			}
			continue
		}
		cv, err := coerce(p, v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		out[name] = cv
	}
	for name := range raw {
		if _, ok := specs[name]; !ok {
			return nil, fmt.Errorf("unexpected argument %q", name)
		}
	}
	return out, nil
}

func normalizeDefault(v any) any {
	switch d := v.(type) {
	case int:
		return float64(d)
	default:
		return d
	}
}

func coerce(p param, v any) (any, error) {
	switch p.typ {
	case "string":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		if s == "" {
			return nil, fmt.Errorf("must not be empty")
		}
		return s, nil

	case "integer":
		f, err := toNumber(v)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected integer, got %v", v)
		}
		if p.min != nil && f < *p.min {
			return nil, fmt.Errorf("must be >= %v", int(*p.min))
		}
		return f, nil

	case "number":
		f, err := toNumber(v)
		if err != nil {
			return nil, err
		}
		if p.min != nil && f < *p.min {
			if *p.min > 0 {
				return nil, fmt.Errorf("must be positive")
			}
			return nil, fmt.Errorf("must not be negative")
		}
		return f, nil

	case "object":
		if _, ok := v.(map[string]any); ok {
			return v, nil
		}
		// models occasionally send structured args as a JSON string
		if s, ok := v.(string); ok {
			var m map[string]any
			if err := json.Unmarshal([]byte(s), &m); err == nil {
				return m, nil
			}
		}
		return nil, fmt.Errorf("expected object, got %T", v)

	default:
		return nil, fmt.Errorf("unsupported parameter type %q", p.typ)
	}
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func toHotelBookings(v any) (map[string]domain.HotelBooking, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("hotel_bookings must be an object")
	}
	out := make(map[string]domain.HotelBooking, len(m))
	for city, raw := range m {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("hotel_bookings[%q] must be an object", city)
		}
		var hb domain.HotelBooking
		if s, ok := entry["name"].(string); ok {
			hb.Name = s
		}
		if s, ok := entry["check_in"].(string); ok {
			hb.CheckIn = s
		}
		if s, ok := entry["check_out"].(string); ok {
			hb.CheckOut = s
		}
		switch pv := entry["price"].(type) {
		case string:
			hb.Price = pv
		case float64:
			hb.Price = strconv.FormatFloat(pv, 'f', -1, 64)
		}
		out[city] = hb
	}
	return out, nil
}

// ---- payload helpers ----

func errPayload(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// jsonify round-trips a value through JSON so tool payloads only carry plain
// maps, slices and scalars the model transport can encode.
func jsonify(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
