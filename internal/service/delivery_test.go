package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
	"github.com/olegiv/dotment-go/internal/testutil"
)

type deliveryFixture struct {
	db       *sql.DB
	queries  *store.Queries
	svc      *DeliveryService
	pkg      store.Package
	employee store.Employee
	poll     store.ContentBlock
}

func newDeliveryFixture(t *testing.T, published bool) (*deliveryFixture, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	ctx := context.Background()
	q := store.New(db)

	now := time.Now()
	pkg, err := q.CreatePackage(ctx, store.CreatePackageParams{
		Title:     "Q1 Town Hall",
		Slug:      "q1-town-hall",
		Status:    model.PackageStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}
	if published {
		pkg, err = q.SetPackageStatus(ctx, store.SetPackageStatusParams{
			Status:      model.PackageStatusPublished,
			PublishedAt: sql.NullTime{Time: now, Valid: true},
			UpdatedAt:   now,
			ID:          pkg.ID,
		})
		if err != nil {
			t.Fatalf("SetPackageStatus: %v", err)
		}
	}

	_, err = q.InsertBlock(ctx, store.InsertBlockParams{
		PackageID: pkg.ID,
		Type:      model.BlockTypeText,
		Content:   `{"body":"Welcome to the *quarterly* update"}`,
		SortOrder: 0,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("InsertBlock text: %v", err)
	}
	poll, err := q.InsertBlock(ctx, store.InsertBlockParams{
		PackageID: pkg.ID,
		Type:      model.BlockTypePoll,
		Content:   `{"question":"Attending?","options":["Yes","No"]}`,
		SortOrder: 1,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("InsertBlock poll: %v", err)
	}

	emp, err := q.CreateEmployee(ctx, store.CreateEmployeeParams{
		ID:        "b3f1c2d4-0000-4000-8000-000000000001",
		Email:     "sam@example.com",
		FullName:  "Sam Okafor",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	svc := NewDeliveryService(db, nil, nil, time.Minute)

	return &deliveryFixture{
		db:       db,
		queries:  q,
		svc:      svc,
		pkg:      pkg,
		employee: emp,
		poll:     poll,
	}, cleanup
}

func TestResolveView_Success(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	ctx := context.Background()
	meta := RequestMeta{IP: "127.0.0.1", UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"}

	view, viewer, err := fx.svc.ResolveView(ctx, "q1-town-hall", fx.employee.ID, meta)
	if err != nil {
		t.Fatalf("ResolveView: %v", err)
	}
	if viewer.EmployeeID != fx.employee.ID {
		t.Errorf("viewer = %q, want %q", viewer.EmployeeID, fx.employee.ID)
	}
	if view.Title != "Q1 Town Hall" {
		t.Errorf("Title = %q", view.Title)
	}
	if len(view.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(view.Blocks))
	}
	if view.Blocks[0].Position != 0 || view.Blocks[1].Position != 1 {
		t.Error("blocks not in position order")
	}
	// Text blocks carry rendered HTML
	if view.Blocks[0].HTML == "" {
		t.Error("text block missing rendered HTML")
	}

	// Exactly one open event per successful load
	events, err := fx.queries.ListEventsByPackage(ctx, fx.pkg.ID)
	if err != nil {
		t.Fatalf("ListEventsByPackage: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].EventType != model.EventTypeOpen {
		t.Errorf("EventType = %q", events[0].EventType)
	}
	var md map[string]any
	if err := json.Unmarshal([]byte(events[0].Metadata), &md); err != nil {
		t.Fatalf("metadata not JSON: %v", err)
	}
	if md["browser"] != "Chrome" {
		t.Errorf("browser = %v", md["browser"])
	}
}

func TestResolveView_RepeatLoadsEachRecord(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, _, err := fx.svc.ResolveView(ctx, "q1-town-hall", fx.employee.ID, RequestMeta{}); err != nil {
			t.Fatalf("ResolveView: %v", err)
		}
	}

	events, _ := fx.queries.ListEventsByPackage(ctx, fx.pkg.ID)
	if len(events) != 3 {
		t.Errorf("got %d open events for 3 loads, want 3", len(events))
	}
}

func TestResolveView_BadToken(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	ctx := context.Background()
	for _, token := range []string{"", "no-such-token"} {
		if _, _, err := fx.svc.ResolveView(ctx, "q1-town-hall", token, RequestMeta{}); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("token %q: expected ErrUnauthorized, got %v", token, err)
		}
	}

	// Rejected requests leave no trace in the event stream
	events, _ := fx.queries.ListEventsByPackage(ctx, fx.pkg.ID)
	if len(events) != 0 {
		t.Errorf("got %d events after rejected loads, want 0", len(events))
	}
}

func TestResolveView_TokenCheckedFirst(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, false)
	defer cleanup()

	ctx := context.Background()

	// An unrecognized token is rejected before the slug is consulted, whether
	// the slug names a draft, nothing at all, or a poll submission target.
	if _, _, err := fx.svc.ResolveView(ctx, "q1-town-hall", "no-such-token", RequestMeta{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("draft slug: expected ErrUnauthorized, got %v", err)
	}
	if _, _, err := fx.svc.ResolveView(ctx, "missing-slug", "no-such-token", RequestMeta{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown slug: expected ErrUnauthorized, got %v", err)
	}
	if err := fx.svc.SubmitPoll(ctx, "missing-slug", "no-such-token", fx.poll.ID, "Yes"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("poll, unknown slug: expected ErrUnauthorized, got %v", err)
	}

	// A valid token against the draft still gets not_found
	if _, _, err := fx.svc.ResolveView(ctx, "q1-town-hall", fx.employee.ID, RequestMeta{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("valid token, draft slug: expected ErrNotFound, got %v", err)
	}
}

func TestResolveView_DraftInvisible(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, false)
	defer cleanup()

	_, _, err := fx.svc.ResolveView(context.Background(), "q1-town-hall", fx.employee.ID, RequestMeta{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for draft package, got %v", err)
	}
}

func TestResolveView_UnknownSlug(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	_, _, err := fx.svc.ResolveView(context.Background(), "does-not-exist", fx.employee.ID, RequestMeta{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveView_ShareLinkToken(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	link, err := fx.queries.CreateShareLink(ctx, store.CreateShareLinkParams{
		Token:      "share-tok-1",
		PackageID:  fx.pkg.ID,
		EmployeeID: fx.employee.ID,
		ExpiresAt:  now.Add(time.Hour),
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}

	_, viewer, err := fx.svc.ResolveView(ctx, "q1-town-hall", "share-tok-1", RequestMeta{})
	if err != nil {
		t.Fatalf("ResolveView with share token: %v", err)
	}
	if viewer.EmployeeID != fx.employee.ID {
		t.Errorf("viewer = %q, want %q", viewer.EmployeeID, fx.employee.ID)
	}

	// Revoked links stop working
	if _, err := fx.queries.RevokeShareLink(ctx, store.RevokeShareLinkParams{
		RevokedAt: sql.NullTime{Time: now, Valid: true},
		ID:        link.ID,
	}); err != nil {
		t.Fatalf("RevokeShareLink: %v", err)
	}
	if _, _, err := fx.svc.ResolveView(ctx, "q1-town-hall", "share-tok-1", RequestMeta{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for revoked link, got %v", err)
	}
}

func TestResolveView_ShareLinkWrongPackage(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	other, err := fx.queries.CreatePackage(ctx, store.CreatePackageParams{
		Title:     "All Hands",
		Slug:      "all-hands",
		Status:    model.PackageStatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}
	if _, err := fx.queries.CreateShareLink(ctx, store.CreateShareLinkParams{
		Token:      "share-tok-2",
		PackageID:  other.ID,
		EmployeeID: fx.employee.ID,
		ExpiresAt:  now.Add(time.Hour),
		CreatedAt:  now,
	}); err != nil {
		t.Fatalf("CreateShareLink: %v", err)
	}

	// The link admits its own package but not a sibling
	if _, _, err := fx.svc.ResolveView(ctx, "all-hands", "share-tok-2", RequestMeta{}); err != nil {
		t.Fatalf("ResolveView on bound package: %v", err)
	}
	if _, _, err := fx.svc.ResolveView(ctx, "q1-town-hall", "share-tok-2", RequestMeta{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign package, got %v", err)
	}
}

func TestResolveView_OpenEventInsertFailure(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	ctx := context.Background()
	if _, err := fx.db.ExecContext(ctx, "DROP TABLE analytics_events"); err != nil {
		t.Fatalf("dropping events table: %v", err)
	}

	// A load whose open event cannot be recorded does not succeed
	_, _, err := fx.svc.ResolveView(ctx, "q1-town-hall", fx.employee.ID, RequestMeta{})
	if err == nil {
		t.Fatal("expected error when the open event insert fails")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		t.Errorf("insert failure mapped to a terminal gate state: %v", err)
	}
}

func TestSubmitPoll(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	ctx := context.Background()
	if err := fx.svc.SubmitPoll(ctx, "q1-town-hall", fx.employee.ID, fx.poll.ID, "Yes"); err != nil {
		t.Fatalf("SubmitPoll: %v", err)
	}

	events, _ := fx.queries.ListEventsByPackage(ctx, fx.pkg.ID)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].EventType != model.EventTypeSubmitPoll {
		t.Errorf("EventType = %q", events[0].EventType)
	}
	var md map[string]any
	_ = json.Unmarshal([]byte(events[0].Metadata), &md)
	if md["selected_option"] != "Yes" {
		t.Errorf("selected_option = %v", md["selected_option"])
	}
	if int64(md["block_id"].(float64)) != fx.poll.ID {
		t.Errorf("block_id = %v, want %d", md["block_id"], fx.poll.ID)
	}
}

func TestSubmitPoll_Rejections(t *testing.T) {
	fx, cleanup := newDeliveryFixture(t, true)
	defer cleanup()

	ctx := context.Background()

	if err := fx.svc.SubmitPoll(ctx, "q1-town-hall", "bad-token", fx.poll.ID, "Yes"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("bad token: expected ErrUnauthorized, got %v", err)
	}
	if err := fx.svc.SubmitPoll(ctx, "q1-town-hall", fx.employee.ID, fx.poll.ID, "Maybe"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("unknown option: expected ErrUnknownOption, got %v", err)
	}
	if err := fx.svc.SubmitPoll(ctx, "q1-town-hall", fx.employee.ID, 99999, "Yes"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing block: expected ErrNotFound, got %v", err)
	}

	// A text block is not a poll
	blocks, _ := fx.queries.ListBlocksByPackage(ctx, fx.pkg.ID)
	if err := fx.svc.SubmitPoll(ctx, "q1-town-hall", fx.employee.ID, blocks[0].ID, "Yes"); !errors.Is(err, ErrNotPoll) {
		t.Errorf("text block: expected ErrNotPoll, got %v", err)
	}

	// None of the rejected submissions reached the event stream
	events, _ := fx.queries.ListEventsByPackage(ctx, fx.pkg.ID)
	if len(events) != 0 {
		t.Errorf("got %d events after rejections, want 0", len(events))
	}
}
