package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	// Create temp file for test database
	f, err := os.CreateTemp("", "dotment-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	// Open database
	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	// Run migrations
	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func createTestPackage(t *testing.T, q *Queries, slug string) Package {
	t.Helper()

	now := time.Now()
	pkg, err := q.CreatePackage(context.Background(), CreatePackageParams{
		Title:     "Test Package",
		Slug:      slug,
		Status:    "draft",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}
	return pkg
}

func TestCreatePackage(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	pkg := createTestPackage(t, q, "q1-town-hall")

	if pkg.ID == 0 {
		t.Error("expected non-zero package ID")
	}
	if pkg.Status != "draft" {
		t.Errorf("Status = %q, want %q", pkg.Status, "draft")
	}
	if pkg.ContentVersion != 0 {
		t.Errorf("ContentVersion = %d, want 0", pkg.ContentVersion)
	}

	// Duplicate slug must be rejected by the unique index
	now := time.Now()
	_, err := q.CreatePackage(context.Background(), CreatePackageParams{
		Title:     "Another",
		Slug:      "q1-town-hall",
		Status:    "draft",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		t.Error("expected error for duplicate slug")
	}
}

func TestGetPublishedPackageBySlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	pkg := createTestPackage(t, q, "benefits-update")

	// Draft packages are invisible to the published lookup
	if _, err := q.GetPublishedPackageBySlug(ctx, "benefits-update"); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows for draft package, got %v", err)
	}

	now := time.Now()
	_, err := q.SetPackageStatus(ctx, SetPackageStatusParams{
		Status:      "published",
		PublishedAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt:   now,
		ID:          pkg.ID,
	})
	if err != nil {
		t.Fatalf("SetPackageStatus: %v", err)
	}

	got, err := q.GetPublishedPackageBySlug(ctx, "benefits-update")
	if err != nil {
		t.Fatalf("GetPublishedPackageBySlug: %v", err)
	}
	if got.ID != pkg.ID {
		t.Errorf("ID = %d, want %d", got.ID, pkg.ID)
	}
}

func TestListBlocksOrdering(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	pkg := createTestPackage(t, q, "ordering-test")

	// Insert out of order; the listing must come back sorted by position
	now := time.Now()
	for _, order := range []int64{2, 0, 1} {
		_, err := q.InsertBlock(ctx, InsertBlockParams{
			PackageID: pkg.ID,
			Type:      "text",
			Content:   `{"body":""}`,
			SortOrder: order,
			CreatedAt: now,
		})
		if err != nil {
			t.Fatalf("InsertBlock: %v", err)
		}
	}

	blocks, err := q.ListBlocksByPackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("ListBlocksByPackage: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	for i, b := range blocks {
		if b.SortOrder != int64(i) {
			t.Errorf("blocks[%d].SortOrder = %d, want %d", i, b.SortOrder, i)
		}
	}
}

func TestReplaceBlocks(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	pkg := createTestPackage(t, q, "replace-test")

	now := time.Now()
	old, err := q.InsertBlock(ctx, InsertBlockParams{
		PackageID: pkg.ID,
		Type:      "header",
		Content:   `{"text":"Old"}`,
		SortOrder: 0,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("InsertBlock: %v", err)
	}

	blocks, err := ReplaceBlocks(ctx, db, ReplaceBlocksParams{
		PackageID:      pkg.ID,
		ContentVersion: 0,
		Blocks: []BlockInput{
			{Type: "header", Content: `{"text":"Welcome"}`},
			{Type: "text", Content: `{"body":"Hello"}`},
		},
		Now: now,
	})
	if err != nil {
		t.Fatalf("ReplaceBlocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}

	// Saved rows are new rows: old identifiers do not survive a save
	for _, b := range blocks {
		if b.ID == old.ID {
			t.Error("replaced block reused old identifier")
		}
	}
	if blocks[0].SortOrder != 0 || blocks[1].SortOrder != 1 {
		t.Errorf("positions = %d,%d, want 0,1", blocks[0].SortOrder, blocks[1].SortOrder)
	}

	got, err := q.GetPackageByID(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("GetPackageByID: %v", err)
	}
	if got.ContentVersion != 1 {
		t.Errorf("ContentVersion = %d, want 1", got.ContentVersion)
	}
}

func TestReplaceBlocksVersionConflict(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	pkg := createTestPackage(t, q, "conflict-test")

	now := time.Now()
	first := []BlockInput{{Type: "text", Content: `{"body":"first"}`}}
	if _, err := ReplaceBlocks(ctx, db, ReplaceBlocksParams{
		PackageID:      pkg.ID,
		ContentVersion: 0,
		Blocks:         first,
		Now:            now,
	}); err != nil {
		t.Fatalf("first ReplaceBlocks: %v", err)
	}

	// A second save against the stale version must fail and leave content intact
	stale := []BlockInput{{Type: "text", Content: `{"body":"stale"}`}}
	_, err := ReplaceBlocks(ctx, db, ReplaceBlocksParams{
		PackageID:      pkg.ID,
		ContentVersion: 0,
		Blocks:         stale,
		Now:            now,
	})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	blocks, err := q.ListBlocksByPackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("ListBlocksByPackage: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Content != `{"body":"first"}` {
		t.Errorf("stored content changed after failed save: %+v", blocks)
	}
}

func TestReplaceBlocksMissingPackage(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := ReplaceBlocks(context.Background(), db, ReplaceBlocksParams{
		PackageID:      9999,
		ContentVersion: 0,
		Blocks:         nil,
		Now:            time.Now(),
	})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestEmployeeCRUD(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	emp, err := q.CreateEmployee(ctx, CreateEmployeeParams{
		ID:         "7c9a4e2f-1b3d-4f5a-9c8e-0d1f2a3b4c5d",
		Email:      "jordan@example.com",
		FullName:   "Jordan Reyes",
		Department: "Engineering",
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	got, err := q.GetEmployeeByID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("GetEmployeeByID: %v", err)
	}
	if got.Email != "jordan@example.com" {
		t.Errorf("Email = %q", got.Email)
	}

	updated, err := q.UpdateEmployee(ctx, UpdateEmployeeParams{
		Email:      "jordan@example.com",
		FullName:   "Jordan Reyes",
		Department: "Platform",
		Location:   "Berlin",
		UpdatedAt:  time.Now(),
		ID:         emp.ID,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	if updated.Department != "Platform" {
		t.Errorf("Department = %q, want %q", updated.Department, "Platform")
	}

	if err := q.DeleteEmployee(ctx, emp.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if _, err := q.GetEmployeeByID(ctx, emp.ID); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}
}

func TestAnalyticsEventsSurviveDeletes(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	pkg := createTestPackage(t, q, "retention-test")

	now := time.Now()
	_, err := q.CreateAnalyticsEvent(ctx, CreateAnalyticsEventParams{
		PackageID:  pkg.ID,
		EmployeeID: "emp-1",
		EventType:  "open",
		Metadata:   "{}",
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateAnalyticsEvent: %v", err)
	}

	// Deleting the package must not cascade into the event stream
	if err := q.DeletePackage(ctx, pkg.ID); err != nil {
		t.Fatalf("DeletePackage: %v", err)
	}

	events, err := q.ListEventsByPackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("ListEventsByPackage: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events after package delete, want 1", len(events))
	}
}

func TestShareLinkLifecycle(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	pkg := createTestPackage(t, q, "share-test")

	now := time.Now()
	emp, err := q.CreateEmployee(ctx, CreateEmployeeParams{
		ID:        "emp-share-1",
		Email:     "taylor@example.com",
		FullName:  "Taylor Kim",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	link, err := q.CreateShareLink(ctx, CreateShareLinkParams{
		Token:      "tok-abc123",
		PackageID:  pkg.ID,
		EmployeeID: emp.ID,
		ExpiresAt:  now.Add(24 * time.Hour),
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}

	active, err := q.GetActiveShareLink(ctx, GetActiveShareLinkParams{
		Token:     "tok-abc123",
		ExpiresAt: now,
	})
	if err != nil {
		t.Fatalf("GetActiveShareLink: %v", err)
	}
	if active.ID != link.ID {
		t.Errorf("ID = %d, want %d", active.ID, link.ID)
	}

	affected, err := q.RevokeShareLink(ctx, RevokeShareLinkParams{
		RevokedAt: sql.NullTime{Time: now, Valid: true},
		ID:        link.ID,
	})
	if err != nil {
		t.Fatalf("RevokeShareLink: %v", err)
	}
	if affected != 1 {
		t.Errorf("affected = %d, want 1", affected)
	}

	if _, err := q.GetActiveShareLink(ctx, GetActiveShareLinkParams{
		Token:     "tok-abc123",
		ExpiresAt: now,
	}); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows for revoked link, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := New(db)
	user, err := q.GetUserByEmail(ctx, DefaultAdminEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user.Role != "super_admin" {
		t.Errorf("Role = %q, want %q", user.Role, "super_admin")
	}

	// Seeding twice is a no-op
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	count, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("CountUsers = %d, want 1", count)
	}
}
