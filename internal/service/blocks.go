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

	"github.com/google/uuid"

	"github.com/olegiv/dotment-go/internal/cache"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// MoveDirection is the direction of an adjacent block swap.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// DraftBlock is one block in an editor working set. The ID is a working-set
// identifier minted at load or add time; it never survives a save, because
// saving replaces the entire stored block set with fresh rows.
type DraftBlock struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Content  json.RawMessage `json:"content"`
	Position int             `json:"position"`
}

// Draft is an in-memory working set for one package's content. All edits
// (add, remove, move, content changes) apply to the draft only; nothing
// reaches storage until Save.
type Draft struct {
	PackageID      int64        `json:"packageId"`
	ContentVersion int64        `json:"contentVersion"`
	Blocks         []DraftBlock `json:"blocks"`
	Dirty          bool         `json:"dirty"`
}

// EditorService loads and saves package content working sets.
type EditorService struct {
	db      *sql.DB
	queries *store.Queries
	cache   cache.Cache
}

// NewEditorService creates a new EditorService.
func NewEditorService(db *sql.DB, c cache.Cache) *EditorService {
	return &EditorService{
		db:      db,
		queries: store.New(db),
		cache:   c,
	}
}

// Load fetches the package's stored blocks into a fresh working set.
// Stored rows get new working-set identifiers; positions are renumbered
// densely from the stored ordering. Stored positions with gaps mean a
// replace was interrupted partway and the row set cannot be trusted.
func (s *EditorService) Load(ctx context.Context, packageID int64) (*Draft, error) {
	pkg, err := s.queries.GetPackageByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching package: %w", err)
	}

	rows, err := s.queries.ListBlocksByPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("fetching blocks: %w", err)
	}

	draft := &Draft{
		PackageID:      pkg.ID,
		ContentVersion: pkg.ContentVersion,
		Blocks:         make([]DraftBlock, 0, len(rows)),
	}
	for i, row := range rows {
		if row.SortOrder != int64(i) {
			return nil, ErrPartialSave
		}
		draft.Blocks = append(draft.Blocks, DraftBlock{
			ID:       uuid.NewString(),
			Type:     row.Type,
			Content:  json.RawMessage(row.Content),
			Position: i,
		})
	}

	return draft, nil
}

// AddBlock appends a new block of the given type to the end of the working
// set, pre-filled with that type's default content.
func (d *Draft) AddBlock(blockType string) (*DraftBlock, error) {
	if !model.IsValidBlockType(blockType) {
		return nil, ErrInvalidBlockType
	}

	block := DraftBlock{
		ID:       uuid.NewString(),
		Type:     blockType,
		Content:  model.DefaultContent(blockType),
		Position: len(d.Blocks),
	}
	d.Blocks = append(d.Blocks, block)
	d.Dirty = true

	return &d.Blocks[len(d.Blocks)-1], nil
}

// RemoveBlock removes the block with the given working-set identifier and
// renumbers the remainder densely. Returns false if no such block exists.
func (d *Draft) RemoveBlock(id string) bool {
	idx := d.indexOf(id)
	if idx < 0 {
		return false
	}

	d.Blocks = append(d.Blocks[:idx], d.Blocks[idx+1:]...)
	d.renumber()
	d.Dirty = true
	return true
}

// MoveBlock swaps the block with its neighbor in the given direction.
// Moving the first block up or the last block down is a no-op; the working
// set stays unchanged and unmarked.
func (d *Draft) MoveBlock(id string, dir MoveDirection) bool {
	idx := d.indexOf(id)
	if idx < 0 {
		return false
	}

	other := idx - 1
	if dir == MoveDown {
		other = idx + 1
	}
	if other < 0 || other >= len(d.Blocks) {
		return false
	}

	d.Blocks[idx], d.Blocks[other] = d.Blocks[other], d.Blocks[idx]
	d.renumber()
	d.Dirty = true
	return true
}

// UpdateContent replaces the content payload of one block in the working set.
func (d *Draft) UpdateContent(id string, content json.RawMessage) bool {
	idx := d.indexOf(id)
	if idx < 0 {
		return false
	}

	d.Blocks[idx].Content = content
	d.Dirty = true
	return true
}

func (d *Draft) indexOf(id string) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// renumber assigns dense positions 0..n-1 following slice order.
func (d *Draft) renumber() {
	for i := range d.Blocks {
		d.Blocks[i].Position = i
	}
}

// validateDraft checks every block before a save reaches storage.
func validateDraft(d *Draft) error {
	for i, b := range d.Blocks {
		if !model.IsValidBlockType(b.Type) {
			return fmt.Errorf("block %d: %w: %q", i, ErrInvalidBlockType, b.Type)
		}
		if len(b.Content) == 0 || !json.Valid(b.Content) {
			return fmt.Errorf("block %d: %w", i, ErrInvalidContent)
		}
		if b.Type == model.BlockTypePoll {
			poll, err := model.ParsePollContent(b.Content)
			if err != nil {
				return fmt.Errorf("block %d: %w: %v", i, ErrInvalidContent, err)
			}
			if len(poll.Options) < 2 {
				return fmt.Errorf("block %d: %w: poll needs at least 2 options", i, ErrInvalidContent)
			}
		}
	}
	return nil
}

// Save persists the working set as the package's complete content. The
// stored block set is replaced wholesale in one transaction; on success the
// draft is reloaded from the freshly inserted rows, so every block carries a
// new working-set identifier. A save against a stale content version returns
// ErrConflict and leaves both storage and the draft untouched.
func (s *EditorService) Save(ctx context.Context, draft *Draft) error {
	if err := validateDraft(draft); err != nil {
		return err
	}

	inputs := make([]store.BlockInput, 0, len(draft.Blocks))
	for _, b := range draft.Blocks {
		inputs = append(inputs, store.BlockInput{
			Type:    b.Type,
			Content: string(b.Content),
		})
	}

	rows, err := store.ReplaceBlocks(ctx, s.db, store.ReplaceBlocksParams{
		PackageID:      draft.PackageID,
		ContentVersion: draft.ContentVersion,
		Blocks:         inputs,
		Now:            time.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrVersionConflict):
			return ErrConflict
		case errors.Is(err, sql.ErrNoRows):
			return ErrNotFound
		default:
			return fmt.Errorf("replacing blocks: %w", err)
		}
	}

	draft.ContentVersion++
	draft.Blocks = draft.Blocks[:0]
	for i, row := range rows {
		draft.Blocks = append(draft.Blocks, DraftBlock{
			ID:       uuid.NewString(),
			Type:     row.Type,
			Content:  json.RawMessage(row.Content),
			Position: i,
		})
	}
	draft.Dirty = false

	// Published views are cached by slug; drop the stale entry.
	if s.cache != nil {
		if pkg, err := s.queries.GetPackageByID(ctx, draft.PackageID); err == nil {
			_ = cache.InvalidateView(ctx, s.cache, pkg.Slug)
		}
	}

	return nil
}
