package pricing

import (
	"time"

	"github.com/nurpe/tourquote/internal/model"
)

// ValidateWindow rejects windows whose start lies after their end.
func ValidateWindow(w model.Window) error {
	if w.Start.After(w.End) {
		return ErrInvalidWindow
	}
	return nil
}

// ValidateContractDoesNotOverlap checks the candidate against every
// existing contract of the same hotel. The candidate's own id is
// skipped so updates can keep their current window.
func ValidateContractDoesNotOverlap(candidate model.Contract, existing []model.Contract) error {
	if err := ValidateWindow(candidate.Window); err != nil {
		return err
	}
	for _, c := range existing {
		if c.ID == candidate.ID {
			continue
		}
		if c.HotelID != candidate.HotelID {
			continue
		}
		if c.Window.Overlaps(candidate.Window) {
			return &ConflictError{Err: ErrOverlappingContract, ConflictingID: c.ID}
		}
	}
	return nil
}

// RateWindowWithinSeason resolves the window a rate will cover. A nil
// rate window defaults to the full season window; an explicit one must
// be contained in it.
func RateWindowWithinSeason(season model.Season, rateWindow *model.Window) (model.Window, error) {
	if rateWindow == nil {
		return season.Window, nil
	}
	if err := ValidateWindow(*rateWindow); err != nil {
		return model.Window{}, err
	}
	if rateWindow.Start.Before(season.Window.Start) || rateWindow.End.After(season.Window.End) {
		return model.Window{}, ErrRateOutsideSeason
	}
	return *rateWindow, nil
}

// EnsureSeasonNotExpired blocks rate mutation under a season whose
// last day has fully passed. The season record itself stays editable;
// only its rates are frozen.
func EnsureSeasonNotExpired(season model.Season, asOf time.Time) error {
	if asOf.After(season.Window.EndOfDay()) {
		return &ConflictError{Err: ErrExpiredSeason, ConflictingID: season.ID}
	}
	return nil
}
