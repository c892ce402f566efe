// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Rollup runs the nightly aggregation that folds the raw event stream into
// per-package daily rows. The on-demand Report never reads these; they serve
// dashboards and retention queries that don't want to scan raw events.
type Rollup struct {
	agg  *Aggregator
	cron *cron.Cron
}

// NewRollup creates a rollup scheduler over the given aggregator.
func NewRollup(agg *Aggregator) *Rollup {
	return &Rollup{agg: agg}
}

// addCronJob registers a cron job with timeout and error logging.
func (r *Rollup) addCronJob(schedule string, timeout time.Duration, jobFunc func(context.Context) error, errMsg string) {
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := jobFunc(ctx); err != nil {
			slog.Error(errMsg, "error", err)
		}
	})
}

// Start begins the background aggregation schedule.
func (r *Rollup) Start() {
	r.cron = cron.New()

	// Daily at 00:15: fold yesterday's events into daily rows
	r.addCronJob("15 0 * * *", 10*time.Minute, func(ctx context.Context) error {
		return r.RollupDay(ctx, time.Now().AddDate(0, 0, -1))
	}, "daily rollup failed")

	r.cron.Start()
	slog.Debug("analytics rollup started")
}

// Stop halts the schedule, waiting for a running job to finish.
func (r *Rollup) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

// RollupDay aggregates one calendar day of events into analytics_daily.
// Re-running for the same day overwrites the previous rows.
func (r *Rollup) RollupDay(ctx context.Context, day time.Time) error {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	dateStr := dayStart.Format("2006-01-02")

	slog.Debug("rolling up daily analytics", "date", dateStr)

	_, err := r.agg.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analytics_daily (package_id, day, views, unique_viewers, poll_responses)
		SELECT
			package_id,
			?,
			SUM(CASE WHEN event_type = 'open' THEN 1 ELSE 0 END),
			COUNT(DISTINCT employee_id),
			SUM(CASE WHEN event_type = 'submit_poll' THEN 1 ELSE 0 END)
		FROM analytics_events
		WHERE created_at >= ? AND created_at < ?
		GROUP BY package_id
	`, dateStr, dayStart, dayEnd)
	if err != nil {
		return err
	}

	slog.Debug("daily rollup complete", "date", dateStr)
	return nil
}
