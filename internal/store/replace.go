package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrVersionConflict is returned when a block save races with another
// writer and the package content version no longer matches.
var ErrVersionConflict = errors.New("store: content version conflict")

// BlockInput is one block in a full content replacement. Identifiers are
// never supplied: the save discards all existing blocks and mints new rows.
type BlockInput struct {
	Type    string
	Content string
}

// ReplaceBlocksParams carries a full-content save for one package.
type ReplaceBlocksParams struct {
	PackageID      int64
	ContentVersion int64
	Blocks         []BlockInput
	Now            time.Time
}

// ReplaceBlocks atomically swaps the entire block set of a package.
// The delete and the inserts run in one transaction, gated on the
// package's content version: a stale version returns ErrVersionConflict
// and leaves the stored content untouched. Block positions are assigned
// densely from the slice order.
func ReplaceBlocks(ctx context.Context, db *sql.DB, arg ReplaceBlocksParams) ([]ContentBlock, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	q := New(tx)

	affected, err := q.BumpContentVersion(ctx, BumpContentVersionParams{
		UpdatedAt:      arg.Now,
		ID:             arg.PackageID,
		ContentVersion: arg.ContentVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("bumping content version: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing package from a stale version.
		if _, err := q.GetPackageByID(ctx, arg.PackageID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, sql.ErrNoRows
			}
			return nil, fmt.Errorf("checking package: %w", err)
		}
		return nil, ErrVersionConflict
	}

	if err := q.DeleteBlocksByPackage(ctx, arg.PackageID); err != nil {
		return nil, fmt.Errorf("deleting blocks: %w", err)
	}

	blocks := make([]ContentBlock, 0, len(arg.Blocks))
	for i, b := range arg.Blocks {
		inserted, err := q.InsertBlock(ctx, InsertBlockParams{
			PackageID: arg.PackageID,
			Type:      b.Type,
			Content:   b.Content,
			SortOrder: int64(i),
			CreatedAt: arg.Now,
		})
		if err != nil {
			return nil, fmt.Errorf("inserting block %d: %w", i, err)
		}
		blocks = append(blocks, inserted)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return blocks, nil
}
