// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// ShareService mints and revokes opaque share-link tokens. Share links give
// one employee access to one package without exposing the employee's
// directory identifier in the URL.
type ShareService struct {
	queries *store.Queries
}

// NewShareService creates a new ShareService.
func NewShareService(db *sql.DB) *ShareService {
	return &ShareService{queries: store.New(db)}
}

// Mint creates a share link for the given package and employee. Both must
// exist; the returned link carries the token to hand out.
func (s *ShareService) Mint(ctx context.Context, packageID int64, employeeID string, ttl time.Duration, createdBy int64) (store.ShareLink, error) {
	if _, err := s.queries.GetPackageByID(ctx, packageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ShareLink{}, ErrNotFound
		}
		return store.ShareLink{}, fmt.Errorf("fetching package: %w", err)
	}
	if _, err := s.queries.GetEmployeeByID(ctx, employeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ShareLink{}, ErrNotFound
		}
		return store.ShareLink{}, fmt.Errorf("fetching employee: %w", err)
	}

	token, err := model.GenerateShareToken()
	if err != nil {
		return store.ShareLink{}, fmt.Errorf("generating token: %w", err)
	}

	if ttl <= 0 {
		ttl = model.DefaultShareLinkTTL
	}

	now := time.Now()
	link, err := s.queries.CreateShareLink(ctx, store.CreateShareLinkParams{
		Token:      token,
		PackageID:  packageID,
		EmployeeID: employeeID,
		ExpiresAt:  now.Add(ttl),
		CreatedBy:  sql.NullInt64{Int64: createdBy, Valid: createdBy != 0},
		CreatedAt:  now,
	})
	if err != nil {
		return store.ShareLink{}, fmt.Errorf("creating share link: %w", err)
	}

	return link, nil
}

// List returns all share links minted for a package, newest first.
func (s *ShareService) List(ctx context.Context, packageID int64) ([]store.ShareLink, error) {
	return s.queries.ListShareLinksByPackage(ctx, packageID)
}

// Revoke invalidates a share link. Revoking an already-revoked or missing
// link returns ErrNotFound.
func (s *ShareService) Revoke(ctx context.Context, id int64) error {
	affected, err := s.queries.RevokeShareLink(ctx, store.RevokeShareLinkParams{
		RevokedAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("revoking share link: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
