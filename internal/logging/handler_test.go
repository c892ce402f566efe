package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "dotment-logging-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}

	return db, cleanup
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listAudit(t *testing.T, db *sql.DB) []store.AuditEvent {
	t.Helper()

	events, err := store.New(db).ListAuditEvents(context.Background(), store.ListAuditEventsParams{
		Limit:  10,
		Offset: 0,
	})
	if err != nil {
		t.Fatalf("ListAuditEvents: %v", err)
	}
	return events
}

func TestAuditLogHandler_Handle_ErrorLevel(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewAuditLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	logger.Error("database connection failed", "host", "localhost", "port", 5432)

	// Give it a moment to write
	time.Sleep(50 * time.Millisecond)

	events := listAudit(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d audit events, want 1", len(events))
	}
	if events[0].Level != model.AuditLevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, model.AuditLevelError)
	}
	if events[0].Message != "database connection failed" {
		t.Errorf("Message = %q", events[0].Message)
	}
	if !strings.Contains(events[0].Metadata, `"host":"localhost"`) {
		t.Errorf("Metadata missing host attr: %s", events[0].Metadata)
	}
}

func TestAuditLogHandler_Handle_InfoBelowThreshold(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewAuditLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	logger.Info("routine startup message")

	time.Sleep(50 * time.Millisecond)

	if events := listAudit(t, db); len(events) != 0 {
		t.Errorf("got %d audit events for INFO log, want 0", len(events))
	}
}

func TestAuditLogHandler_CategoryAttribute(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewAuditLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	logger.Warn("something odd", "category", model.AuditCategoryDelivery)

	time.Sleep(50 * time.Millisecond)

	events := listAudit(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d audit events, want 1", len(events))
	}
	if events[0].Category != model.AuditCategoryDelivery {
		t.Errorf("Category = %q, want %q", events[0].Category, model.AuditCategoryDelivery)
	}
}

func TestAuditLogHandler_CategoryInference(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewAuditLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	tests := []struct {
		message string
		want    string
	}{
		{"login attempt failed", model.AuditCategoryAuth},
		{"package save rejected", model.AuditCategoryPackage},
		{"employee import error", model.AuditCategoryEmployee},
		{"poll submission rejected", model.AuditCategoryDelivery},
		{"disk nearly full", model.AuditCategorySystem},
	}

	for _, tt := range tests {
		logger.Warn(tt.message)
	}

	time.Sleep(50 * time.Millisecond)

	events := listAudit(t, db)
	if len(events) != len(tests) {
		t.Fatalf("got %d audit events, want %d", len(events), len(tests))
	}
	// Events list newest first
	for i, tt := range tests {
		got := events[len(tests)-1-i]
		if got.Category != tt.want {
			t.Errorf("%q: Category = %q, want %q", tt.message, got.Category, tt.want)
		}
	}
}
