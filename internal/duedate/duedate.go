// Package duedate computes the selectable due-date window for an order from
// the client's due-date configuration.
package duedate

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Layout is the wire format of due dates.
const Layout = "2006-01-02"

// Today returns midnight of now's calendar day in now's location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// InitialDueDate is today plus defaultDueOn days.
func InitialDueDate(now time.Time, defaultDueOn int) time.Time {
	return Today(now).AddDate(0, 0, defaultDueOn)
}

// CalculateMaxDate returns the last selectable due date. maxDueOn counts
// today as day 1: 0 and 1 both allow only today, 2 allows today and tomorrow.
func CalculateMaxDate(now time.Time, maxDueOn int) time.Time {
	if maxDueOn == 0 {
		return Today(now)
	}
	return Today(now).AddDate(0, 0, maxDueOn-1)
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Window returns the initial and bounding dates for the due-date picker.
func Window(now time.Time, cfg model.ClientDueDateConfig) model.DueDateWindow {
	return model.DueDateWindow{
		Initial: Format(InitialDueDate(now, cfg.DefaultDueOn)),
		Min:     Format(Today(now)),
		Max:     Format(CalculateMaxDate(now, cfg.MaxDueOn)),
	}
}

// Parse reads a YYYY-MM-DD due date and checks it lies between today and the
// configured maximum, inclusive.
func Parse(raw string, now time.Time, cfg model.ClientDueDateConfig) (time.Time, error) {
	due, err := time.ParseInLocation(Layout, raw, now.Location())
	if err != nil {
		return time.Time{}, model.NewValidationError(model.MsgInvalidDueDate)
	}
	if due.Before(Today(now)) || due.After(CalculateMaxDate(now, cfg.MaxDueOn)) {
		return time.Time{}, model.NewValidationError(model.MsgInvalidDueDate)
	}
	return due, nil
}

// Normalize applies the per-field defaults to a backend payload. Negative
// values are treated as absent.
func Normalize(resp model.DueDateConfigResponse) model.ClientDueDateConfig {
	cfg := model.DefaultDueDateConfig()
	if resp.DefaultDueOn != nil && *resp.DefaultDueOn >= 0 {
		cfg.DefaultDueOn = *resp.DefaultDueOn
	}
	if resp.MaxDueOn != nil && *resp.MaxDueOn >= 0 {
		cfg.MaxDueOn = *resp.MaxDueOn
	}
	return cfg
}

// ConfigFetcher retrieves a client's due-date configuration.
type ConfigFetcher interface {
	DueDateConfig(ctx context.Context, token, licenseID string) (*model.DueDateConfigResponse, error)
}

// Service resolves the due-date configuration of the configured license.
type Service struct {
	fetcher   ConfigFetcher
	licenseID string
	logger    zerolog.Logger
}

// NewService creates a due-date service for licenseID.
func NewService(fetcher ConfigFetcher, licenseID string, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		licenseID: licenseID,
		logger:    logger.With().Str("service", "duedate").Logger(),
	}
}

// Config fetches the configuration, falling back to the defaults on any
// failure. It never returns an error.
func (s *Service) Config(ctx context.Context, token string) model.ClientDueDateConfig {
	resp, err := s.fetcher.DueDateConfig(ctx, token, s.licenseID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("license_id", s.licenseID).
			Msg("due-date config unavailable, using defaults")
		return model.DefaultDueDateConfig()
	}
	if resp == nil {
		return model.DefaultDueDateConfig()
	}

	cfg := Normalize(*resp)
	s.logger.Debug().
		Int("default_due_on", cfg.DefaultDueOn).
		Int("max_due_on", cfg.MaxDueOn).
		Msg("due-date config resolved")
	return cfg
}
