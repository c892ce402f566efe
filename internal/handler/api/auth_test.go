// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

func TestLogin(t *testing.T) {
	env := testSetup(t)
	user := env.createTestUser(t, "op@example.com", model.RoleAdmin)

	req := newJSONRequest(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Email: "op@example.com", Password: testPassword})
	req = withSession(t, env.sessions, req)
	rec := httptest.NewRecorder()
	env.handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp SessionResponse
	decodeData(t, rec.Body, &resp)
	if resp.ID != user.ID || resp.Email != user.Email || resp.Role != model.RoleAdmin {
		t.Errorf("unexpected session response: %+v", resp)
	}

	// Session carries the operator ID after login
	if got := env.sessions.GetInt64(req.Context(), middleware.SessionKeyUserID); got != user.ID {
		t.Errorf("session user_id = %d, want %d", got, user.ID)
	}
}

func TestLoginInvalidPassword(t *testing.T) {
	env := testSetup(t)
	env.createTestUser(t, "op@example.com", model.RoleAdmin)

	req := newJSONRequest(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Email: "op@example.com", Password: "wrong-password"})
	req = withSession(t, env.sessions, req)
	rec := httptest.NewRecorder()
	env.handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	env := testSetup(t)

	req := newJSONRequest(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Email: "ghost@example.com", Password: "whatever-pass"})
	req = withSession(t, env.sessions, req)
	rec := httptest.NewRecorder()
	env.handler.Login(rec, req)

	// Same answer as a wrong password so accounts cannot be enumerated
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLoginMissingFields(t *testing.T) {
	env := testSetup(t)

	req := newJSONRequest(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: "op@example.com"})
	rec := httptest.NewRecorder()
	env.handler.Login(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestLoginLockout(t *testing.T) {
	env := testSetup(t)
	env.createTestUser(t, "op@example.com", model.RoleAdmin)

	attempt := func() *httptest.ResponseRecorder {
		req := newJSONRequest(t, http.MethodPost, "/api/v1/auth/login",
			LoginRequest{Email: "op@example.com", Password: "wrong-password"})
		req = withSession(t, env.sessions, req)
		rec := httptest.NewRecorder()
		env.handler.Login(rec, req)
		return rec
	}

	// Exhaust the failed-attempt budget
	var last *httptest.ResponseRecorder
	for i := 0; i < 5; i++ {
		last = attempt()
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("final failed attempt status = %d, want %d", last.Code, http.StatusTooManyRequests)
	}

	// Even the correct password is rejected while locked
	req := newJSONRequest(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Email: "op@example.com", Password: testPassword})
	req = withSession(t, env.sessions, req)
	rec := httptest.NewRecorder()
	env.handler.Login(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("locked login status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	detail := decodeError(t, rec.Body)
	if detail.Code != "account_locked" {
		t.Errorf("error code = %q, want account_locked", detail.Code)
	}
}

func TestLogout(t *testing.T) {
	env := testSetup(t)
	user := env.createTestUser(t, "op@example.com", model.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = withSession(t, env.sessions, req)
	env.sessions.Put(req.Context(), middleware.SessionKeyUserID, user.ID)
	req = withUser(req, user)

	rec := httptest.NewRecorder()
	env.handler.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := env.sessions.GetInt64(req.Context(), middleware.SessionKeyUserID); got != 0 {
		t.Errorf("session user_id after logout = %d, want 0", got)
	}
}

func TestSession(t *testing.T) {
	env := testSetup(t)
	user := env.createTestUser(t, "op@example.com", model.RoleSuperAdmin)

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
		req = withUser(req, user)
		rec := httptest.NewRecorder()
		env.handler.Session(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp SessionResponse
		decodeData(t, rec.Body, &resp)
		if resp.Role != model.RoleSuperAdmin {
			t.Errorf("Role = %q, want %q", resp.Role, model.RoleSuperAdmin)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
		rec := httptest.NewRecorder()
		env.handler.Session(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestWithUserContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = withUser(req, store.User{ID: 7, Email: "x@example.com", Role: model.RoleAdmin})

	if got := middleware.GetUserID(req); got != 7 {
		t.Errorf("GetUserID = %d, want 7", got)
	}
	if got := middleware.GetUserEmail(req); got != "x@example.com" {
		t.Errorf("GetUserEmail = %q", got)
	}
}
