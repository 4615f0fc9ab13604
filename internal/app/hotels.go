package app

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bling_travel/internal/domain"
)

// searchConcurrency bounds the per-destination fan-out of one hotel search.
const searchConcurrency = 4

// HotelSearch resolves a city to destination areas and merges ranked offers
// across them.
type HotelSearch struct {
	client domain.HotelClient
}

func NewHotelSearch(client domain.HotelClient) *HotelSearch {
	return &HotelSearch{client: client}
}

// Search returns offers sorted ascending by current price, offers without a
// price last. It returns domain.ErrUnavailable when no city/district areas
// resolve or every per-destination search fails; partial failures are skipped
// and logged, the rest still contribute.
func (s *HotelSearch) Search(ctx context.Context, q domain.HotelQuery) ([]domain.HotelOffer, error) {
	dests, err := s.client.SearchDestinations(ctx, q.City)
	if err != nil {
		log.Warn().Err(err).Str("city", q.City).Msg("destination lookup failed")
		return nil, domain.ErrUnavailable
	}

	var ids []string
	for _, d := range dests {
		// only city- and district-level areas are searchable
		if d.Type == "city" || d.Type == "district" {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) == 0 {
		return nil, domain.ErrUnavailable
	}

	results := make([][]domain.HotelOffer, len(ids))
	sem := semaphore.NewWeighted(searchConcurrency)
	var wg sync.WaitGroup
	var succeeded int32

	for i, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, destID string) {
			defer wg.Done()
			defer sem.Release(1)

			offers, err := s.client.SearchHotels(ctx, destID, q)
			if err != nil {
				log.Warn().Err(err).Str("dest_id", destID).Msg("hotel search failed for destination")
				return
			}
			atomic.AddInt32(&succeeded, 1)
			results[i] = offers
		}(i, id)
	}
	wg.Wait()

	if atomic.LoadInt32(&succeeded) == 0 {
		return nil, domain.ErrUnavailable
	}

	// merge in destination order, keep only offers meeting the rating floor
	var all []domain.HotelOffer
	for _, rs := range results {
		for _, o := range rs {
			if o.Rating >= q.MinRating {
				all = append(all, o)
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return currentPrice(all[i]) < currentPrice(all[j])
	})
	return all, nil
}

// currentPrice treats a missing price as +Inf so such offers sort last.
func currentPrice(o domain.HotelOffer) float64 {
	if o.Price.Current == nil {
		return math.Inf(1)
	}
	return *o.Price.Current
}
