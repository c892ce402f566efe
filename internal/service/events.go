// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic for the admin portal: the block
// editor working set, the public delivery gate, and audit trail logging.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// AuditService provides audit trail logging functionality.
type AuditService struct {
	queries *store.Queries
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{
		queries: store.New(db),
	}
}

// LogEvent creates a new audit log entry.
func (s *AuditService) LogEvent(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateAuditEvent(ctx, store.CreateAuditEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		IpAddress: ipAddress,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to log audit event: %v", err)
		return err
	}

	return nil
}

// LogInfo logs an info-level event.
func (s *AuditService) LogInfo(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.AuditLevelInfo, category, message, userID, ipAddress, metadata)
}

// LogWarning logs a warning-level event.
func (s *AuditService) LogWarning(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.AuditLevelWarning, category, message, userID, ipAddress, metadata)
}

// LogError logs an error-level event.
func (s *AuditService) LogError(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.AuditLevelError, category, message, userID, ipAddress, metadata)
}

// LogAuthEvent logs an authentication-related event.
func (s *AuditService) LogAuthEvent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.AuditCategoryAuth, message, userID, ipAddress, metadata)
}

// LogPackageEvent logs a package-related event.
func (s *AuditService) LogPackageEvent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.AuditCategoryPackage, message, userID, ipAddress, metadata)
}

// LogEmployeeEvent logs an employee-directory event.
func (s *AuditService) LogEmployeeEvent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.AuditCategoryEmployee, message, userID, ipAddress, metadata)
}

// LogUserEvent logs an operator-account event.
func (s *AuditService) LogUserEvent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.AuditCategoryUser, message, userID, ipAddress, metadata)
}

// LogDeliveryEvent logs a public delivery event.
func (s *AuditService) LogDeliveryEvent(ctx context.Context, level, message string, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.AuditCategoryDelivery, message, nil, ipAddress, metadata)
}
