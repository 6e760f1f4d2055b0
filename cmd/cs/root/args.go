package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cleansteps/internal/recovery"
)

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s id must be a positive integer", what)
	}
	return id, nil
}

// idArgs validates that the first n args are positive integer ids.
func idArgs(n int, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("%s id is required", names[len(args)])
		}
		for i := 0; i < n; i++ {
			if _, err := parseID(args[i], names[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseWhen accepts an absolute date (local time) or a span back from now
// such as "30d" or "36h".
func parseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "now" {
		return now, nil
	}
	if d, err := parseSpan(s); err == nil {
		return now.Add(-d), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date (use YYYY-MM-DD, RFC3339, or a span like 30d)", s)
}

// parseSpan extends time.ParseDuration with a "d" (day) suffix.
func parseSpan(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil || n < 0 {
			return 0, errors.New("invalid day count")
		}
		return time.Duration(n * float64(24*time.Hour)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("span must not be negative")
	}
	return d, nil
}

// resolveGoal finds a goal of the milestone by full id or unique id prefix.
func resolveGoal(ctx context.Context, svc *recovery.Service, milestoneID int64, ref string) (recovery.AnyGoal, error) {
	ms, err := svc.GetMilestone(ctx, milestoneID)
	if err != nil {
		return recovery.AnyGoal{}, err
	}
	if id, err := uuid.Parse(ref); err == nil {
		if g, ok := ms.Goal(id); ok {
			return g, nil
		}
		return recovery.AnyGoal{}, fmt.Errorf("goal %s in milestone %d: %w", ref, milestoneID, recovery.ErrNotFound)
	}
	var match recovery.AnyGoal
	for _, g := range ms.Goals {
		if !strings.HasPrefix(g.ID().String(), strings.ToLower(ref)) {
			continue
		}
		if !match.IsZero() {
			return recovery.AnyGoal{}, fmt.Errorf("goal prefix %q is ambiguous", ref)
		}
		match = g
	}
	if match.IsZero() {
		return recovery.AnyGoal{}, fmt.Errorf("goal %s in milestone %d: %w", ref, milestoneID, recovery.ErrNotFound)
	}
	return match, nil
}

func resolveStep(g *recovery.TaskGoal, ref string) (uuid.UUID, error) {
	var match *recovery.TaskStep
	for i := range g.Steps {
		if !strings.HasPrefix(g.Steps[i].ID.String(), strings.ToLower(ref)) {
			continue
		}
		if match != nil {
			return uuid.Nil, fmt.Errorf("step prefix %q is ambiguous", ref)
		}
		match = &g.Steps[i]
	}
	if match == nil {
		return uuid.Nil, fmt.Errorf("step %s: %w", ref, recovery.ErrNotFound)
	}
	return match.ID, nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
