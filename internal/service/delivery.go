// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/dotment-go/internal/cache"
	"github.com/olegiv/dotment-go/internal/geoip"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/render"
	"github.com/olegiv/dotment-go/internal/store"
)

// Delivery gate errors. Token failures and content failures are distinct so
// the public API can answer 401 versus 404.
var (
	ErrUnauthorized  = errors.New("unrecognized access token")
	ErrUnknownOption = errors.New("selected option is not part of the poll")
	ErrNotPoll       = errors.New("block is not a poll")
)

// Viewer identifies the employee admitted through the delivery gate.
type Viewer struct {
	EmployeeID string `json:"employeeId"`
	FullName   string `json:"fullName"`
}

// ViewBlock is one rendered block in a public view payload.
type ViewBlock struct {
	ID       int64           `json:"id"`
	Type     string          `json:"type"`
	Content  json.RawMessage `json:"content"`
	HTML     string          `json:"html,omitempty"`
	Position int64           `json:"position"`
}

// View is the complete public render of one published package.
type View struct {
	PackageID int64       `json:"packageId"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Blocks    []ViewBlock `json:"blocks"`
}

// RequestMeta carries request attributes recorded with delivery events.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// DeliveryService resolves public view requests: it admits or rejects the
// access token, renders published content, and records the event stream
// that analytics are computed from.
type DeliveryService struct {
	db      *sql.DB
	queries *store.Queries
	cache   cache.Cache
	geo     *geoip.Lookup
	viewTTL time.Duration
}

// NewDeliveryService creates a new DeliveryService. The geo lookup may be
// nil when GeoIP enrichment is disabled.
func NewDeliveryService(db *sql.DB, c cache.Cache, geo *geoip.Lookup, viewTTL time.Duration) *DeliveryService {
	return &DeliveryService{
		db:      db,
		queries: store.New(db),
		cache:   c,
		geo:     geo,
		viewTTL: viewTTL,
	}
}

// resolveToken resolves an access token to a viewer without consulting the
// requested package. A token is either an employee identifier or an
// unexpired, unrevoked share-link token. Share-link tokens carry their
// package binding back to the caller (0 for an unbound employee-ID token);
// the binding is enforced only after the package itself resolves, so a bad
// token never learns whether a slug exists.
func (s *DeliveryService) resolveToken(ctx context.Context, token string) (*Viewer, int64, error) {
	if token == "" {
		return nil, 0, ErrUnauthorized
	}

	emp, err := s.queries.GetEmployeeByID(ctx, token)
	if err == nil {
		return &Viewer{EmployeeID: emp.ID, FullName: emp.FullName}, 0, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("resolving employee token: %w", err)
	}

	link, err := s.queries.GetActiveShareLink(ctx, store.GetActiveShareLinkParams{
		Token:     token,
		ExpiresAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrUnauthorized
		}
		return nil, 0, fmt.Errorf("resolving share token: %w", err)
	}

	emp, err = s.queries.GetEmployeeByID(ctx, link.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrUnauthorized
		}
		return nil, 0, fmt.Errorf("resolving share link employee: %w", err)
	}

	return &Viewer{EmployeeID: emp.ID, FullName: emp.FullName}, link.PackageID, nil
}

// ResolveView is the delivery gate. The token is checked first; only a
// caller holding a valid token learns whether the slug names a published
// package. Every successful resolution records exactly one open event;
// repeat loads by the same viewer each record their own.
func (s *DeliveryService) ResolveView(ctx context.Context, slug, token string, meta RequestMeta) (*View, *Viewer, error) {
	viewer, boundPackageID, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	pkg, err := s.queries.GetPublishedPackageBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("fetching package: %w", err)
	}
	if boundPackageID != 0 && boundPackageID != pkg.ID {
		return nil, nil, ErrUnauthorized
	}

	view, err := s.renderView(ctx, pkg)
	if err != nil {
		return nil, nil, err
	}

	if err := s.recordOpen(ctx, pkg.ID, viewer.EmployeeID, meta); err != nil {
		return nil, nil, err
	}

	return view, viewer, nil
}

// renderView builds the view payload, serving from cache when possible.
// The rendered content is identical for every viewer, so it is keyed by slug.
func (s *DeliveryService) renderView(ctx context.Context, pkg store.Package) (*View, error) {
	key := cache.ViewKey(pkg.Slug)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var view View
			if err := json.Unmarshal(data, &view); err == nil {
				return &view, nil
			}
		}
	}

	rows, err := s.queries.ListBlocksByPackage(ctx, pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching blocks: %w", err)
	}

	view := &View{
		PackageID: pkg.ID,
		Title:     pkg.Title,
		Slug:      pkg.Slug,
		Blocks:    make([]ViewBlock, 0, len(rows)),
	}
	for _, row := range rows {
		vb := ViewBlock{
			ID:       row.ID,
			Type:     row.Type,
			Content:  json.RawMessage(row.Content),
			Position: row.SortOrder,
		}
		if row.Type == model.BlockTypeText {
			if text, err := model.ParseTextContent(json.RawMessage(row.Content)); err == nil {
				if html, err := render.Markdown(text.Body); err == nil {
					vb.HTML = html
				}
			}
		}
		view.Blocks = append(view.Blocks, vb)
	}

	if s.cache != nil {
		if data, err := json.Marshal(view); err == nil {
			_ = s.cache.Set(ctx, key, data, s.viewTTL)
		}
	}

	return view, nil
}

// recordOpen appends an open event enriched with user agent and geo data.
// A view only succeeds once its open event is durably recorded, so insert
// failures propagate and fail the whole load.
func (s *DeliveryService) recordOpen(ctx context.Context, packageID int64, employeeID string, meta RequestMeta) error {
	metadata := map[string]any{}
	if meta.UserAgent != "" {
		ua := parseUserAgent(meta.UserAgent)
		metadata["browser"] = ua.Browser
		metadata["os"] = ua.OS
		metadata["device_type"] = ua.DeviceType
	}
	if s.geo != nil && meta.IP != "" {
		if country := s.geo.LookupCountry(meta.IP); country != "" {
			metadata["country"] = country
		}
	}

	metadataJSON := "{}"
	if b, err := json.Marshal(metadata); err == nil {
		metadataJSON = string(b)
	}

	_, err := s.queries.CreateAnalyticsEvent(ctx, store.CreateAnalyticsEventParams{
		PackageID:  packageID,
		EmployeeID: employeeID,
		EventType:  model.EventTypeOpen,
		Metadata:   metadataJSON,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("recording open event: %w", err)
	}
	return nil
}

// SubmitPoll records a poll response for an authorized viewer. The selected
// option must be one of the poll's configured options. Session-local repeat
// suppression is the transport's concern; the event stream itself accepts
// every recorded response.
func (s *DeliveryService) SubmitPoll(ctx context.Context, slug, token string, blockID int64, selectedOption string) error {
	viewer, boundPackageID, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}

	pkg, err := s.queries.GetPublishedPackageBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetching package: %w", err)
	}
	if boundPackageID != 0 && boundPackageID != pkg.ID {
		return ErrUnauthorized
	}

	block, err := s.queries.GetBlockByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetching block: %w", err)
	}
	if block.PackageID != pkg.ID {
		return ErrNotFound
	}
	if block.Type != model.BlockTypePoll {
		return ErrNotPoll
	}

	poll, err := model.ParsePollContent(json.RawMessage(block.Content))
	if err != nil {
		return fmt.Errorf("parsing poll content: %w", err)
	}
	valid := false
	for _, opt := range poll.Options {
		if opt == selectedOption {
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownOption
	}

	metadataJSON, _ := json.Marshal(map[string]any{
		"block_id":        blockID,
		"selected_option": selectedOption,
	})

	_, err = s.queries.CreateAnalyticsEvent(ctx, store.CreateAnalyticsEventParams{
		PackageID:  pkg.ID,
		EmployeeID: viewer.EmployeeID,
		EventType:  model.EventTypeSubmitPoll,
		Metadata:   string(metadataJSON),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("recording poll response: %w", err)
	}

	return nil
}
