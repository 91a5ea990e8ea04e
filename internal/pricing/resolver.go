package pricing

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/tourquote/internal/model"
)

// NightResolution is the outcome for a single night. When Resolved is
// false the night contributes zero and Season/Rate are zero values.
type NightResolution struct {
	Night    time.Time    `json:"night"`
	Season   model.Season `json:"season,omitempty"`
	Rate     model.Rate   `json:"rate,omitempty"`
	Amount   float64      `json:"amount"`
	Resolved bool         `json:"resolved"`
}

// StaySummary aggregates a stay's nightly resolutions. Unresolved
// nights are counted, not failed.
type StaySummary struct {
	PerNight        []NightResolution `json:"per_night"`
	Total           float64           `json:"total"`
	UnresolvedCount int               `json:"unresolved_count"`
}

// StayNights partitions a stay into its nights: consecutive dates from
// arrival up to but excluding departure (nobody sleeps on check-out
// day).
func StayNights(arrival, departure time.Time) ([]time.Time, error) {
	arrival = dateOnly(arrival)
	departure = dateOnly(departure)
	if !departure.After(arrival) {
		return nil, ErrInvalidStay
	}
	var nights []time.Time
	for day := arrival; day.Before(departure); day = day.AddDate(0, 0, 1) {
		nights = append(nights, day)
	}
	return nights, nil
}

// ResolveNight picks the season covering the night, then the rate for
// the requested room type whose effective window covers it. Seasons
// are allowed to overlap (unlike contracts), so the selection needs a
// tie-break; see pickSeason. A night no season or rate covers resolves
// to an unresolved outcome, never an error.
func ResolveNight(night time.Time, snapshot []model.SeasonRates, roomTypeID uuid.UUID) NightResolution {
	night = dateOnly(night)
	res := NightResolution{Night: night}

	matched := make([]model.SeasonRates, 0, 1)
	for _, sr := range snapshot {
		if sr.Season.Window.Contains(night) {
			matched = append(matched, sr)
		}
	}
	if len(matched) == 0 {
		return res
	}

	chosen := matched[0]
	for _, sr := range matched[1:] {
		if seasonWins(sr.Season, chosen.Season) {
			chosen = sr
		}
	}

	for _, rate := range chosen.Rates {
		if rate.RoomTypeID != roomTypeID {
			continue
		}
		if !rate.EffectiveWindow(chosen.Season).Contains(night) {
			continue
		}
		res.Season = chosen.Season
		res.Rate = rate
		res.Amount = rate.Amount
		res.Resolved = true
		return res
	}
	return res
}

// seasonWins is the deterministic tie-break for overlapping seasons:
// the season starting latest wins, then the most recently created,
// then the larger id.
func seasonWins(a, b model.Season) bool {
	if !a.Window.Start.Equal(b.Window.Start) {
		return a.Window.Start.After(b.Window.Start)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

// AggregateStay sums resolved amounts, treating every unresolved night
// as zero.
func AggregateStay(resolutions []NightResolution) StaySummary {
	summary := StaySummary{PerNight: resolutions}
	for _, r := range resolutions {
		if !r.Resolved {
			summary.UnresolvedCount++
			continue
		}
		summary.Total += r.Amount
	}
	return summary
}

// ResolveStay is the whole pipeline for one room type: nights,
// per-night resolution, aggregation.
func ResolveStay(arrival, departure time.Time, snapshot []model.SeasonRates, roomTypeID uuid.UUID) (StaySummary, error) {
	nights, err := StayNights(arrival, departure)
	if err != nil {
		return StaySummary{}, err
	}
	resolutions := make([]NightResolution, 0, len(nights))
	for _, night := range nights {
		resolutions = append(resolutions, ResolveNight(night, snapshot, roomTypeID))
	}
	return AggregateStay(resolutions), nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
