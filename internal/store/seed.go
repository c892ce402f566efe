package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/dotment-go/internal/auth"
)

// Default operator credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates initial data in the database.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	// Check if the bootstrap operator already exists
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	// Hash the default password
	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	// Create the bootstrap operator
	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Name:         DefaultAdminName,
		Role:         "super_admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}

// SeedDemo creates sample content when demo seeding is enabled and the
// database holds no packages yet.
func SeedDemo(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	queries := New(db)

	count, err := queries.CountPackages(ctx)
	if err != nil {
		return fmt.Errorf("counting packages: %w", err)
	}
	if count > 0 {
		slog.Info("packages already exist, skipping demo seed")
		return nil
	}

	now := time.Now()

	employees := []CreateEmployeeParams{
		{ID: "emp-1001", Email: "alice.nguyen@example.com", FullName: "Alice Nguyen", Department: "Engineering", Location: "Berlin", Phone: "+49 30 1234001", Tags: `["onboarding-buddy"]`, CreatedAt: now, UpdatedAt: now},
		{ID: "emp-1002", Email: "bob.okafor@example.com", FullName: "Bob Okafor", Department: "Sales", Location: "London", Phone: "+44 20 1234002", Tags: `[]`, CreatedAt: now, UpdatedAt: now},
		{ID: "emp-1003", Email: "carmen.diaz@example.com", FullName: "Carmen Diaz", Department: "Engineering", Location: "Madrid", Phone: "+34 91 1234003", Tags: `["works-council"]`, CreatedAt: now, UpdatedAt: now},
	}
	for _, emp := range employees {
		if _, err := queries.CreateEmployee(ctx, emp); err != nil {
			return fmt.Errorf("creating demo employee %s: %w", emp.ID, err)
		}
	}

	pkg, err := queries.CreatePackage(ctx, CreatePackageParams{
		Title:     "Welcome to Dotment",
		Slug:      "welcome-to-dotment",
		Status:    "published",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("creating demo package: %w", err)
	}

	blocks := []InsertBlockParams{
		{PackageID: pkg.ID, Type: "header", Content: `{"text":"Welcome aboard","level":1}`, SortOrder: 0, CreatedAt: now},
		{PackageID: pkg.ID, Type: "text", Content: `{"body":"This is a **sample package**. Edit or delete it from the admin portal."}`, SortOrder: 1, CreatedAt: now},
		{PackageID: pkg.ID, Type: "poll", Content: `{"question":"How clear was this update?","options":["Very clear","Somewhat clear","Not clear"]}`, SortOrder: 2, CreatedAt: now},
	}
	for _, block := range blocks {
		if _, err := queries.InsertBlock(ctx, block); err != nil {
			return fmt.Errorf("creating demo block: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, `UPDATE packages SET published_at = ? WHERE id = ?`, now, pkg.ID); err != nil {
		return fmt.Errorf("marking demo package published: %w", err)
	}

	slog.Info("seeded demo content", "package", pkg.Slug, "employees", len(employees))
	return nil
}
