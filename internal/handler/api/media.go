// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// maxUploadBytes caps a single image upload at 20MB.
const maxUploadBytes = 20 << 20

// MediaResponse represents an uploaded image in API responses.
type MediaResponse struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	Width     int64     `json:"width"`
	Height    int64     `json:"height"`
	URL       string    `json:"url"`
	ThumbURL  string    `json:"thumb_url"`
	CreatedAt time.Time `json:"created_at"`
}

func storeMediaToResponse(m store.Media) MediaResponse {
	return MediaResponse{
		ID:        m.ID,
		UUID:      m.Uuid,
		Filename:  m.Filename,
		MimeType:  m.MimeType,
		Size:      m.Size,
		Width:     m.Width,
		Height:    m.Height,
		URL:       "/uploads/originals/" + m.Uuid + "/" + m.Filename,
		ThumbURL:  "/uploads/thumbs/" + m.Uuid + "/" + m.Filename,
		CreatedAt: m.CreatedAt,
	}
}

// UploadMedia handles POST /api/v1/media. Accepts multipart/form-data with a
// single "file" field; the image is re-encoded and a thumbnail is generated.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteBadRequest(w, "Failed to parse multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "No file provided. Use the 'file' field", nil)
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && !model.IsSupportedMimeType(contentType) {
		WriteValidationError(w, map[string]string{"file": "Unsupported image type"})
		return
	}

	mediaUUID := uuid.NewString()
	result, err := h.processor.ProcessImage(file, mediaUUID, header.Filename)
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "Could not process image: " + err.Error()})
		return
	}

	var createdBy sql.NullInt64
	if userID := middleware.GetUserID(r); userID != 0 {
		createdBy = sql.NullInt64{Int64: userID, Valid: true}
	}

	media, err := h.queries.CreateMedia(ctx, store.CreateMediaParams{
		Uuid:      mediaUUID,
		Filename:  header.Filename,
		MimeType:  result.MimeType,
		Size:      result.Size,
		Width:     int64(result.Width),
		Height:    int64(result.Height),
		FilePath:  result.FilePath,
		ThumbPath: result.ThumbPath,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	})
	if err != nil {
		// The files are already on disk; roll them back so the store and
		// the upload directory stay in step.
		_ = h.processor.DeleteMediaFiles(mediaUUID)
		WriteInternalError(w, "Failed to save media record")
		return
	}

	WriteCreated(w, storeMediaToResponse(media))
}

// ListMedia handles GET /api/v1/media.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)

	items, err := h.queries.ListMedia(ctx, store.ListMediaParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list media")
		return
	}

	total, err := h.queries.CountMedia(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count media")
		return
	}

	responses := make([]MediaResponse, 0, len(items))
	for _, m := range items {
		responses = append(responses, storeMediaToResponse(m))
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// DeleteMedia handles DELETE /api/v1/media/{uuid}. Removes the record and
// the files on disk.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mediaUUID := chi.URLParam(r, "uuid")
	media, err := h.queries.GetMediaByUUID(ctx, mediaUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Media not found")
		} else {
			WriteInternalError(w, "Failed to retrieve media")
		}
		return
	}

	if err := h.queries.DeleteMedia(ctx, media.ID); err != nil {
		WriteInternalError(w, "Failed to delete media")
		return
	}
	if err := h.processor.DeleteMediaFiles(media.Uuid); err != nil {
		WriteInternalError(w, "Failed to delete media files")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
