package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
	"github.com/olegiv/dotment-go/internal/testutil"
)

type fixture struct {
	queries *store.Queries
	agg     *Aggregator
	pkg     store.Package
	poll    store.ContentBlock
}

func newFixture(t *testing.T, employeeCount int) (*fixture, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	ctx := context.Background()
	q := store.New(db)

	now := time.Now()
	pkg, err := q.CreatePackage(ctx, store.CreatePackageParams{
		Title:     "Benefits Update",
		Slug:      "benefits-update",
		Status:    model.PackageStatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}

	poll, err := q.InsertBlock(ctx, store.InsertBlockParams{
		PackageID: pkg.ID,
		Type:      model.BlockTypePoll,
		Content:   `{"question":"Happy with the plan?","options":["Yes","No","Unsure"]}`,
		SortOrder: 0,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("InsertBlock: %v", err)
	}

	for i := 0; i < employeeCount; i++ {
		_, err := q.CreateEmployee(ctx, store.CreateEmployeeParams{
			ID:        fmt.Sprintf("emp-%d", i),
			Email:     fmt.Sprintf("emp%d@example.com", i),
			FullName:  fmt.Sprintf("Employee %d", i),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateEmployee: %v", err)
		}
	}

	return &fixture{
		queries: q,
		agg:     New(db),
		pkg:     pkg,
		poll:    poll,
	}, cleanup
}

func (f *fixture) addEvent(t *testing.T, employeeID, eventType, metadata string, at time.Time) {
	t.Helper()

	_, err := f.queries.CreateAnalyticsEvent(context.Background(), store.CreateAnalyticsEventParams{
		PackageID:  f.pkg.ID,
		EmployeeID: employeeID,
		EventType:  eventType,
		Metadata:   metadata,
		CreatedAt:  at,
	})
	if err != nil {
		t.Fatalf("CreateAnalyticsEvent: %v", err)
	}
}

func TestReport_EngagementRate(t *testing.T) {
	fx, cleanup := newFixture(t, 3)
	defer cleanup()

	// 3 views from 2 distinct employees out of 3 in the directory
	base := time.Now().Add(-time.Hour)
	fx.addEvent(t, "emp-0", model.EventTypeOpen, "{}", base)
	fx.addEvent(t, "emp-0", model.EventTypeOpen, "{}", base.Add(time.Minute))
	fx.addEvent(t, "emp-1", model.EventTypeOpen, "{}", base.Add(2*time.Minute))

	report, err := fx.agg.Report(context.Background(), fx.pkg.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if report.TotalViews != 3 {
		t.Errorf("TotalViews = %d, want 3", report.TotalViews)
	}
	if report.UniqueViewers != 2 {
		t.Errorf("UniqueViewers = %d, want 2", report.UniqueViewers)
	}
	if report.TotalEmployees != 3 {
		t.Errorf("TotalEmployees = %d, want 3", report.TotalEmployees)
	}
	// 2/3 rounds to 67
	if report.EngagementRate != 67 {
		t.Errorf("EngagementRate = %d, want 67", report.EngagementRate)
	}
	if !report.HasData {
		t.Error("HasData = false with recorded views")
	}
}

func TestReport_EmptyState(t *testing.T) {
	fx, cleanup := newFixture(t, 5)
	defer cleanup()

	report, err := fx.agg.Report(context.Background(), fx.pkg.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if report.HasData {
		t.Error("HasData = true with no events")
	}
	if report.TotalViews != 0 || report.UniqueViewers != 0 || report.EngagementRate != 0 {
		t.Errorf("non-zero counters in empty report: %+v", report)
	}
	// The ledger still lists the whole directory, all pending
	if len(report.Ledger) != 5 {
		t.Fatalf("ledger has %d entries, want 5", len(report.Ledger))
	}
	for _, entry := range report.Ledger {
		if entry.Status != StatusPending {
			t.Errorf("%s: Status = %q, want pending", entry.EmployeeID, entry.Status)
		}
	}
}

func TestReport_NoEmployeesZeroRate(t *testing.T) {
	fx, cleanup := newFixture(t, 0)
	defer cleanup()

	// Views from someone no longer in the directory
	fx.addEvent(t, "departed-emp", model.EventTypeOpen, "{}", time.Now())

	report, err := fx.agg.Report(context.Background(), fx.pkg.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.EngagementRate != 0 {
		t.Errorf("EngagementRate = %d with empty directory, want 0", report.EngagementRate)
	}
	if report.UniqueViewers != 1 {
		t.Errorf("UniqueViewers = %d, want 1", report.UniqueViewers)
	}
}

func TestReport_PollTallies(t *testing.T) {
	fx, cleanup := newFixture(t, 3)
	defer cleanup()

	base := time.Now().Add(-time.Hour)
	pollMD := func(option string) string {
		return fmt.Sprintf(`{"block_id":%d,"selected_option":%q}`, fx.poll.ID, option)
	}
	fx.addEvent(t, "emp-0", model.EventTypeSubmitPoll, pollMD("Yes"), base)
	fx.addEvent(t, "emp-1", model.EventTypeSubmitPoll, pollMD("Yes"), base.Add(time.Minute))
	fx.addEvent(t, "emp-2", model.EventTypeSubmitPoll, pollMD("No"), base.Add(2*time.Minute))
	// A response against a block that no longer exists is ignored
	fx.addEvent(t, "emp-0", model.EventTypeSubmitPoll, `{"block_id":99999,"selected_option":"Yes"}`, base.Add(3*time.Minute))
	// A response with no recorded option never tallies under the empty key
	fx.addEvent(t, "emp-1", model.EventTypeSubmitPoll, pollMD(""), base.Add(4*time.Minute))

	report, err := fx.agg.Report(context.Background(), fx.pkg.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if len(report.Polls) != 1 {
		t.Fatalf("got %d poll results, want 1", len(report.Polls))
	}
	poll := report.Polls[0]
	if poll.Question != "Happy with the plan?" {
		t.Errorf("Question = %q", poll.Question)
	}
	if poll.Votes["Yes"] != 2 || poll.Votes["No"] != 1 {
		t.Errorf("Votes = %v", poll.Votes)
	}
	// Options nobody picked still appear with zero votes
	if count, ok := poll.Votes["Unsure"]; !ok || count != 0 {
		t.Errorf("Unsure votes = %d present=%v, want 0 present", count, ok)
	}
	if _, ok := poll.Votes[""]; ok {
		t.Error("empty option tallied as a vote key")
	}
	if poll.TotalVotes != 4 {
		t.Errorf("TotalVotes = %d, want 4", poll.TotalVotes)
	}
	if report.PollResponses != 5 {
		t.Errorf("PollResponses = %d, want 5", report.PollResponses)
	}
}

func TestReport_LedgerLatestInteraction(t *testing.T) {
	fx, cleanup := newFixture(t, 2)
	defer cleanup()

	early := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	late := time.Now().Add(-time.Hour).Truncate(time.Second)
	fx.addEvent(t, "emp-0", model.EventTypeOpen, "{}", early)
	fx.addEvent(t, "emp-0", model.EventTypeOpen, "{}", late)

	report, err := fx.agg.Report(context.Background(), fx.pkg.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	var active, pending *LedgerEntry
	for i := range report.Ledger {
		switch report.Ledger[i].EmployeeID {
		case "emp-0":
			active = &report.Ledger[i]
		case "emp-1":
			pending = &report.Ledger[i]
		}
	}
	if active == nil || pending == nil {
		t.Fatal("ledger missing directory employees")
	}
	if active.Status != StatusActive {
		t.Errorf("active employee Status = %q", active.Status)
	}
	if active.LastInteraction == nil || !active.LastInteraction.Equal(late) {
		t.Errorf("LastInteraction = %v, want %v", active.LastInteraction, late)
	}
	if pending.Status != StatusPending || pending.LastInteraction != nil {
		t.Errorf("pending entry = %+v", pending)
	}
}

func TestReport_MissingPackage(t *testing.T) {
	fx, cleanup := newFixture(t, 0)
	defer cleanup()

	if _, err := fx.agg.Report(context.Background(), fx.pkg.ID+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRollupDay(t *testing.T) {
	fx, cleanup := newFixture(t, 2)
	defer cleanup()

	ctx := context.Background()
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local)
	fx.addEvent(t, "emp-0", model.EventTypeOpen, "{}", day.Add(9*time.Hour))
	fx.addEvent(t, "emp-1", model.EventTypeOpen, "{}", day.Add(10*time.Hour))
	fx.addEvent(t, "emp-0", model.EventTypeSubmitPoll, "{}", day.Add(11*time.Hour))
	// Next-day event stays out of the rollup
	fx.addEvent(t, "emp-0", model.EventTypeOpen, "{}", day.Add(25*time.Hour))

	rollup := NewRollup(fx.agg)
	if err := rollup.RollupDay(ctx, day); err != nil {
		t.Fatalf("RollupDay: %v", err)
	}

	rows, err := fx.queries.ListDailyRollups(ctx, store.ListDailyRollupsParams{
		PackageID: fx.pkg.ID,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("ListDailyRollups: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rollup rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Day != "2026-08-29" {
		t.Errorf("Day = %q", row.Day)
	}
	if row.Views != 2 {
		t.Errorf("Views = %d, want 2", row.Views)
	}
	if row.UniqueViewers != 2 {
		t.Errorf("UniqueViewers = %d, want 2", row.UniqueViewers)
	}
	if row.PollResponses != 1 {
		t.Errorf("PollResponses = %d, want 1", row.PollResponses)
	}

	// Re-running the same day replaces rather than accumulates
	if err := rollup.RollupDay(ctx, day); err != nil {
		t.Fatalf("second RollupDay: %v", err)
	}
	rows, _ = fx.queries.ListDailyRollups(ctx, store.ListDailyRollupsParams{PackageID: fx.pkg.ID, Limit: 10})
	if len(rows) != 1 || rows[0].Views != 2 {
		t.Errorf("rerun changed rollup rows: %+v", rows)
	}
}
