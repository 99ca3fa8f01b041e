package report

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/billing"
	"github.com/MrJamesThe3rd/centavo/internal/date"
)

var (
	// ErrPresetNotAllowed signals a preset above the plan tier. The handler
	// turns it into an upgrade prompt, never a silent clamp.
	ErrPresetNotAllowed = errors.New("preset not available on current plan")

	// ErrCustomRangeNotAllowed signals a custom range requested on the free plan.
	ErrCustomRangeNotAllowed = errors.New("custom date ranges require the pro plan")
)

// PlanLimits is one row of the per-tier window table: the selectable preset
// day counts and the maximum lookback in days.
type PlanLimits struct {
	Presets []int
	MaxDays int
}

// PlanConfig maps each plan tier to its window limits. The exact preset sets
// are configuration, not constants.
type PlanConfig map[billing.Plan]PlanLimits

// DateRange is a caller-supplied custom start/end pair.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Period is the resolved reporting window. It is derived state, recomputed on
// every request, never persisted.
type Period struct {
	Start      time.Time
	End        time.Time
	PresetDays int
	Custom     bool
	Label      string
}

// Days returns the inclusive day count of the period.
func (p Period) Days() int {
	return date.DaysBetween(p.Start, p.End)
}

// ResolveWindow computes the canonical reporting window from the plan tier,
// the selected preset or custom range, and an explicitly injected today.
// It is a pure function: no clock reads, no side effects.
//
// Custom ranges are honored for pro only; start is clamped to the plan's
// maximum lookback and end to today, with reversed bounds swapped. Preset
// mode always ends today and spans exactly presetDays days. A preset outside
// the plan's allowed set is refused, not clamped: that refusal is what
// triggers the upgrade prompt, and it also re-clamps stale selections after
// a downgrade.
func ResolveWindow(cfg PlanConfig, plan billing.Plan, presetDays int, custom *DateRange, today time.Time) (Period, error) {
	limits, ok := cfg[plan]
	if !ok {
		return Period{}, fmt.Errorf("no window limits configured for plan %q", plan)
	}

	today = date.Day(today)

	if custom != nil {
		if plan != billing.PlanPro {
			return Period{}, ErrCustomRangeNotAllowed
		}

		start, end := date.Day(custom.Start), date.Day(custom.End)
		if start.After(end) {
			start, end = end, start
		}

		oldest := today.AddDate(0, 0, -(limits.MaxDays - 1))
		if start.Before(oldest) {
			start = oldest
		}

		if end.After(today) {
			end = today
		}

		if end.Before(oldest) {
			end = oldest
		}

		if start.After(end) {
			start = end
		}

		return Period{
			Start:  start,
			End:    end,
			Custom: true,
			Label:  fmt.Sprintf("%s – %s", start.Format(time.DateOnly), end.Format(time.DateOnly)),
		}, nil
	}

	if !slices.Contains(limits.Presets, presetDays) {
		return Period{}, fmt.Errorf("%w: %d days", ErrPresetNotAllowed, presetDays)
	}

	return Period{
		Start:      today.AddDate(0, 0, -(presetDays - 1)),
		End:        today,
		PresetDays: presetDays,
		Label:      fmt.Sprintf("Last %d days", presetDays),
	}, nil
}

// PlanSource reports the effective plan tier for a user at a point in time.
type PlanSource interface {
	PlanFor(ctx context.Context, userID uuid.UUID, now time.Time) (billing.Plan, error)
}

// Resolver combines the window table with live plan lookups. It implements
// the WindowSource the transaction service validates against.
type Resolver struct {
	cfg   PlanConfig
	plans PlanSource
}

func NewResolver(cfg PlanConfig, plans PlanSource) *Resolver {
	return &Resolver{cfg: cfg, plans: plans}
}

// Config exposes the window table, mainly for handlers that default the
// preset selection.
func (r *Resolver) Config() PlanConfig {
	return r.cfg
}

// Resolve computes the reporting window for a user's current plan.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, presetDays int, custom *DateRange, today time.Time) (Period, error) {
	plan, err := r.plans.PlanFor(ctx, userID, today)
	if err != nil {
		return Period{}, fmt.Errorf("resolving plan: %w", err)
	}

	return ResolveWindow(r.cfg, plan, presetDays, custom, today)
}

// EditableWindow returns the widest span the user may record transactions in:
// the plan's full lookback up to today.
func (r *Resolver) EditableWindow(ctx context.Context, userID uuid.UUID, today time.Time) (time.Time, time.Time, error) {
	plan, err := r.plans.PlanFor(ctx, userID, today)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("resolving plan: %w", err)
	}

	limits, ok := r.cfg[plan]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("no window limits configured for plan %q", plan)
	}

	today = date.Day(today)

	return today.AddDate(0, 0, -(limits.MaxDays - 1)), today, nil
}
