// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics computes engagement reports from the delivery event
// stream. Reports are derived on demand; the raw events stay immutable.
package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// ErrNotFound is returned when the requested package does not exist.
var ErrNotFound = errors.New("package not found")

// Ledger entry statuses.
const (
	StatusActive  = "active"
	StatusPending = "pending"
)

// PollResult tallies responses for one poll block.
type PollResult struct {
	BlockID    int64            `json:"blockId"`
	Question   string           `json:"question"`
	Votes      map[string]int64 `json:"votes"`
	TotalVotes int64            `json:"totalVotes"`
}

// LedgerEntry is one employee's row in the engagement ledger.
type LedgerEntry struct {
	EmployeeID      string     `json:"employeeId"`
	FullName        string     `json:"fullName"`
	Department      string     `json:"department"`
	Status          string     `json:"status"`
	LastInteraction *time.Time `json:"lastInteraction,omitempty"`
}

// Report is the complete engagement picture for one package.
type Report struct {
	PackageID      int64         `json:"packageId"`
	TotalViews     int64         `json:"totalViews"`
	UniqueViewers  int64         `json:"uniqueViewers"`
	TotalEmployees int64         `json:"totalEmployees"`
	PollResponses  int64         `json:"pollResponses"`
	EngagementRate int64         `json:"engagementRate"`
	Polls          []PollResult  `json:"polls"`
	Ledger         []LedgerEntry `json:"ledger"`
	HasData        bool          `json:"hasData"`
}

// Aggregator derives engagement reports from recorded events.
type Aggregator struct {
	db      *sql.DB
	queries *store.Queries
}

// New creates a new Aggregator.
func New(db *sql.DB) *Aggregator {
	return &Aggregator{
		db:      db,
		queries: store.New(db),
	}
}

// pollMetadata is the payload recorded with each poll response event.
type pollMetadata struct {
	BlockID        int64  `json:"block_id"`
	SelectedOption string `json:"selected_option"`
}

// Report computes the engagement report for one package. Views count every
// open event; unique viewers count distinct employees across all event
// types. An employee's last interaction is the newest event they produced.
// When nothing has been viewed yet, the report carries HasData=false and
// zeroed counters so the caller can render an explicit empty state.
func (a *Aggregator) Report(ctx context.Context, packageID int64) (*Report, error) {
	if _, err := a.queries.GetPackageByID(ctx, packageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching package: %w", err)
	}

	events, err := a.queries.ListEventsByPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	employees, err := a.queries.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching employees: %w", err)
	}

	report := &Report{
		PackageID:      packageID,
		TotalEmployees: int64(len(employees)),
	}

	// Events arrive newest first, so the first sighting of each employee
	// is their latest interaction.
	lastInteraction := make(map[string]time.Time)
	for _, ev := range events {
		if ev.EventType == model.EventTypeOpen {
			report.TotalViews++
		}
		if ev.EventType == model.EventTypeSubmitPoll {
			report.PollResponses++
		}
		if _, seen := lastInteraction[ev.EmployeeID]; !seen {
			lastInteraction[ev.EmployeeID] = ev.CreatedAt
		}
	}
	report.UniqueViewers = int64(len(lastInteraction))

	if report.TotalEmployees > 0 {
		rate := float64(report.UniqueViewers) / float64(report.TotalEmployees) * 100
		report.EngagementRate = int64(math.Round(rate))
	}

	report.Polls, err = a.tallyPolls(ctx, packageID, events)
	if err != nil {
		return nil, err
	}

	report.Ledger = buildLedger(employees, lastInteraction)
	report.HasData = report.TotalViews > 0

	return report, nil
}

// tallyPolls computes per-option vote counts for every poll block in the
// package. Responses naming a block that no longer exists are not counted:
// saving content replaces blocks wholesale, so stale responses are expected.
func (a *Aggregator) tallyPolls(ctx context.Context, packageID int64, events []store.AnalyticsEvent) ([]PollResult, error) {
	pollBlocks, err := a.queries.ListPollBlocksByPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("fetching poll blocks: %w", err)
	}

	results := make([]PollResult, 0, len(pollBlocks))
	for _, block := range pollBlocks {
		poll, err := model.ParsePollContent(json.RawMessage(block.Content))
		if err != nil {
			continue
		}

		result := PollResult{
			BlockID:  block.ID,
			Question: poll.Question,
			Votes:    make(map[string]int64, len(poll.Options)),
		}
		for _, opt := range poll.Options {
			result.Votes[opt] = 0
		}

		for _, ev := range events {
			if ev.EventType != model.EventTypeSubmitPoll {
				continue
			}
			var md pollMetadata
			if err := json.Unmarshal([]byte(ev.Metadata), &md); err != nil {
				continue
			}
			if md.BlockID != block.ID {
				continue
			}
			// Responses with no recorded option count toward the total but
			// tally under no option
			if md.SelectedOption != "" {
				result.Votes[md.SelectedOption]++
			}
			result.TotalVotes++
		}

		results = append(results, result)
	}

	return results, nil
}

// buildLedger produces one row per directory employee: active if they have
// interacted with the package, pending otherwise.
func buildLedger(employees []store.Employee, lastInteraction map[string]time.Time) []LedgerEntry {
	ledger := make([]LedgerEntry, 0, len(employees))
	for _, emp := range employees {
		entry := LedgerEntry{
			EmployeeID: emp.ID,
			FullName:   emp.FullName,
			Department: emp.Department,
			Status:     StatusPending,
		}
		if ts, ok := lastInteraction[emp.ID]; ok {
			entry.Status = StatusActive
			t := ts
			entry.LastInteraction = &t
		}
		ledger = append(ledger, entry)
	}
	return ledger
}
