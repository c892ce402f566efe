// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/dotment-go/internal/analytics"
	"github.com/olegiv/dotment-go/internal/auth"
	"github.com/olegiv/dotment-go/internal/cache"
	"github.com/olegiv/dotment-go/internal/imaging"
	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/service"
	"github.com/olegiv/dotment-go/internal/session"
	"github.com/olegiv/dotment-go/internal/store"
	"github.com/olegiv/dotment-go/internal/testutil"
)

// testPassword is the password assigned to operators created by createTestUser.
const testPassword = "test-password"

// testEnv bundles everything an API handler test needs.
type testEnv struct {
	db       *sql.DB
	queries  *store.Queries
	handler  *Handler
	sessions *scs.SessionManager
}

// testSetup creates a migrated temp database and a fully wired API handler.
func testSetup(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	viewCache := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = viewCache.Close() })

	sessions := session.New(db, true)

	h := NewHandler(Deps{
		DB:              db,
		Sessions:        sessions,
		Editor:          service.NewEditorService(db, viewCache),
		Delivery:        service.NewDeliveryService(db, viewCache, nil, time.Minute),
		Share:           service.NewShareService(db),
		Audit:           service.NewAuditService(db),
		Reports:         analytics.New(db),
		Processor:       imaging.NewProcessor(t.TempDir()),
		Cache:           viewCache,
		LoginProtection: middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
	})

	return &testEnv{
		db:       db,
		queries:  store.New(db),
		handler:  h,
		sessions: sessions,
	}
}

// newJSONRequest builds a request with a JSON body.
func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// withIDParam attaches a numeric {id} route parameter.
func withIDParam(r *http.Request, id int64) *http.Request {
	return withURLParam(r, "id", strconv.FormatInt(id, 10))
}

// withUser places an operator in the request context the way LoadUser does.
func withUser(r *http.Request, user store.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
	return r.WithContext(ctx)
}

// withSession runs the request context through the session manager so
// handlers can read and write session data.
func withSession(t *testing.T, sm *scs.SessionManager, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return r.WithContext(ctx)
}

// decodeData unmarshals the "data" field of a standard API response.
func decodeData(t *testing.T, body io.Reader, out any) {
	t.Helper()

	var resp struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		t.Fatalf("decoding response data: %v", err)
	}
}

// decodeError unmarshals a standard API error response.
func decodeError(t *testing.T, body io.Reader) ErrorDetail {
	t.Helper()

	var resp ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return resp.Error
}

// createTestUser inserts an operator account directly into the store.
func (env *testEnv) createTestUser(t *testing.T, email, role string) store.User {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}

	now := time.Now()
	user, err := env.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test Operator",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

// createTestPackage inserts a package directly into the store.
func (env *testEnv) createTestPackage(t *testing.T, title, slug, status string) store.Package {
	t.Helper()

	now := time.Now()
	pkg, err := env.queries.CreatePackage(context.Background(), store.CreatePackageParams{
		Title:     title,
		Slug:      slug,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("creating test package: %v", err)
	}
	return pkg
}

// createTestEmployee inserts a directory employee directly into the store.
func (env *testEnv) createTestEmployee(t *testing.T, id, email, name, department string) store.Employee {
	t.Helper()

	now := time.Now()
	emp, err := env.queries.CreateEmployee(context.Background(), store.CreateEmployeeParams{
		ID:         id,
		Email:      email,
		FullName:   name,
		Department: department,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("creating test employee: %v", err)
	}
	return emp
}
