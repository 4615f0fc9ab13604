package bookingcom

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bling_travel/internal/adapters/observability"
	"bling_travel/internal/domain"
)

// Client talks to the booking-com15 RapidAPI hotel-data service. Both
// endpoints are read-only GETs returning a JSON envelope with a boolean
// status flag and a data payload.
type Client struct {
	base     string
	host     string
	hc       *http.Client
	key      string
	currency string
	rl       *rate.Limiter
}

func New(base, key, currency string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	if currency == "" {
		currency = "AED"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("bad base URL %q: %w", base, err)
	}
	return &Client{
		base:     strings.TrimRight(base, "/"),
		host:     u.Host,
		hc:       &http.Client{Timeout: 20 * time.Second},
		key:      key,
		currency: currency,
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- envelopes ----

type destEnvelope struct {
	Status  bool   `json:"status"`
	Message any    `json:"message"`
	Data    []struct {
		DestID   string `json:"dest_id"`
		DestType string `json:"dest_type"`
		Name     string `json:"name"`
	} `json:"data"`
}

type hotelsEnvelope struct {
	Status  bool `json:"status"`
	Message any  `json:"message"`
	Data    struct {
		Hotels []struct {
			AccessibilityLabel string `json:"accessibilityLabel"`
			Property           struct {
				Name            string   `json:"name"`
				ReviewScore     float64  `json:"reviewScore"`
				ReviewScoreWord string   `json:"reviewScoreWord"`
				PhotoURLs       []string `json:"photoUrls"`
				Currency        string   `json:"currency"`
				Latitude        *float64 `json:"latitude"`
				Longitude       *float64 `json:"longitude"`
				DistanceFromCtr any      `json:"distanceFromCenter"`
				PriceBreakdown  struct {
					GrossPrice struct {
						Value *float64 `json:"value"`
					} `json:"grossPrice"`
					StrikethroughPrice struct {
						Value *float64 `json:"value"`
					} `json:"strikethroughPrice"`
				} `json:"priceBreakdown"`
			} `json:"property"`
		} `json:"hotels"`
	} `json:"data"`
}

// ---- Public API ----

func (c *Client) SearchDestinations(ctx context.Context, city string) ([]domain.Destination, error) {
	u := c.base + "/api/v1/hotels/searchDestination?query=" + url.QueryEscape(city)
	var env destEnvelope
	if err := c.get(ctx, "searchDestination", u, &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("searchDestination: %s", apiMessage(env.Message))
	}
	out := make([]domain.Destination, 0, len(env.Data))
	for _, d := range env.Data {
		out = append(out, domain.Destination{ID: d.DestID, Type: d.DestType, Name: d.Name})
	}
	return out, nil
}

func (c *Client) SearchHotels(ctx context.Context, destID string, q domain.HotelQuery) ([]domain.HotelOffer, error) {
	vals := url.Values{}
	vals.Set("dest_id", destID)
	vals.Set("search_type", "CITY")
	vals.Set("adults", strconv.Itoa(q.Adults))
	vals.Set("children_age", childrenAges(q.Children))
	vals.Set("room_qty", strconv.Itoa(q.Rooms))
	vals.Set("arrival_date", q.ArrivalDate)
	vals.Set("departure_date", q.DepartureDate)
	vals.Set("units", "metric")
	vals.Set("currency_code", c.currency)

	u := c.base + "/api/v1/hotels/searchHotels?" + vals.Encode()
	var env hotelsEnvelope
	if err := c.get(ctx, "searchHotels", u, &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("searchHotels dest %s: %s", destID, apiMessage(env.Message))
	}

	out := make([]domain.HotelOffer, 0, len(env.Data.Hotels))
	for _, h := range env.Data.Hotels {
		p := h.Property
		var img string
		if len(p.PhotoURLs) > 0 {
			img = p.PhotoURLs[0]
		}
		out = append(out, domain.HotelOffer{
			Name:        p.Name,
			Rating:      p.ReviewScore,
			RatingWord:  p.ReviewScoreWord,
			Description: h.AccessibilityLabel,
			ImageURL:    img,
			Price: domain.HotelPrice{
				Current:  p.PriceBreakdown.GrossPrice.Value,
				Original: p.PriceBreakdown.StrikethroughPrice.Value,
				Currency: p.Currency,
			},
			Location: domain.HotelLocation{
				Latitude:         p.Latitude,
				Longitude:        p.Longitude,
				DistanceToCenter: distanceString(p.DistanceFromCtr),
			},
		})
	}
	return out, nil
}

// ---- Internals ----

// childrenAges encodes children as a per-child age placeholder list ("0,0,..").
func childrenAges(n int) string {
	if n <= 0 {
		return ""
	}
	ages := make([]string, n)
	for i := range ages {
		ages[i] = "0"
	}
	return strings.Join(ages, ",")
}

// distanceString tolerates the upstream sending the distance as number or text.
func distanceString(v any) string {
	switch d := v.(type) {
	case nil:
		return "N/A"
	case string:
		if d == "" {
			return "N/A"
		}
		return d
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", d)
	}
}

func apiMessage(m any) string {
	if m == nil {
		return "unknown error"
	}
	if s, ok := m.(string); ok && s != "" {
		return s
	}
	b, _ := json.Marshal(m)
	return string(b)
}

// get performs a GET with client-side rate limiting, retries on 429 and
// transient 5xx (honoring Retry-After), and decodes JSON into out.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-RapidAPI-Key", c.key)
		req.Header.Set("X-RapidAPI-Host", c.host)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("hotels", endpoint, 0, time.Since(start))
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("hotels", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode %s: %w", endpoint, err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles each attempt (200ms, 400ms, 800ms...) with up to +50%
// crypto/rand jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
