// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// EmployeeResponse represents a directory entry in API responses.
type EmployeeResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Department string    `json:"department,omitempty"`
	Location   string    `json:"location,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateEmployeeRequest represents the request body for creating an employee.
type CreateEmployeeRequest struct {
	Email      string   `json:"email"`
	FullName   string   `json:"full_name"`
	Department string   `json:"department,omitempty"`
	Location   string   `json:"location,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// UpdateEmployeeRequest represents the request body for updating an employee.
type UpdateEmployeeRequest struct {
	Email      *string   `json:"email,omitempty"`
	FullName   *string   `json:"full_name,omitempty"`
	Department *string   `json:"department,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

func storeEmployeeToResponse(e store.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Email:      e.Email,
		FullName:   e.FullName,
		Department: e.Department,
		Location:   e.Location,
		Phone:      e.Phone,
		Tags:       decodeTags(e.Tags),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// decodeTags unpacks the stored tag list. Rows predating the column or
// holding malformed text surface as no tags.
func decodeTags(stored string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(stored), &tags); err != nil || len(tags) == 0 {
		return nil
	}
	return tags
}

// encodeTags packs a tag list for storage; nil stores as an empty list.
func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func validateEmployeeFields(fullName, email string) map[string]string {
	fieldErrors := make(map[string]string)
	if len(fullName) < 2 {
		fieldErrors["full_name"] = "Full name must be at least 2 characters"
	}
	if !isValidEmail(email) {
		fieldErrors["email"] = "A valid email address is required"
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// ListEmployees handles GET /api/v1/employees.
// Supports ?q= (name or email substring) and ?department= filters.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	department := r.URL.Query().Get("department")

	var (
		employees []store.Employee
		err       error
	)

	if query != "" || department != "" {
		pattern := "%" + query + "%"
		employees, err = h.queries.SearchEmployees(ctx, store.SearchEmployeesParams{
			FullName:   pattern,
			Email:      pattern,
			Column3:    department,
			Department: department,
		})
	} else {
		employees, err = h.queries.ListEmployees(ctx)
	}
	if err != nil {
		WriteInternalError(w, "Failed to list employees")
		return
	}

	total, err := h.queries.CountEmployees(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count employees")
		return
	}

	responses := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, storeEmployeeToResponse(e))
	}

	WriteSuccess(w, responses, &Meta{Total: total})
}

// ListDepartments handles GET /api/v1/employees/departments.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.queries.ListDepartments(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list departments")
		return
	}
	WriteSuccess(w, departments, nil)
}

// GetEmployee handles GET /api/v1/employees/{id}.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, storeEmployeeToResponse(employee), nil)
}

// CreateEmployee handles POST /api/v1/employees.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if fieldErrors := validateEmployeeFields(req.FullName, req.Email); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	exists, err := h.queries.EmployeeEmailExists(ctx, req.Email)
	if err != nil {
		WriteInternalError(w, "Failed to check email")
		return
	}
	if exists != 0 {
		WriteValidationError(w, map[string]string{"email": "Email already exists"})
		return
	}

	now := time.Now()
	employee, err := h.queries.CreateEmployee(ctx, store.CreateEmployeeParams{
		ID:         uuid.NewString(),
		Email:      req.Email,
		FullName:   req.FullName,
		Department: req.Department,
		Location:   req.Location,
		Phone:      req.Phone,
		Tags:       encodeTags(req.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create employee")
		return
	}

	_ = h.audit.LogEmployeeEvent(ctx, model.AuditLevelInfo, "Employee created",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"employee_id": employee.ID, "email": employee.Email})

	WriteCreated(w, storeEmployeeToResponse(employee))
}

// UpdateEmployee handles PUT /api/v1/employees/{id}.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	params := store.UpdateEmployeeParams{
		Email:      existing.Email,
		FullName:   existing.FullName,
		Department: existing.Department,
		Location:   existing.Location,
		Phone:      existing.Phone,
		Tags:       existing.Tags,
		UpdatedAt:  time.Now(),
		ID:         existing.ID,
	}
	if req.Email != nil {
		params.Email = *req.Email
	}
	if req.FullName != nil {
		params.FullName = *req.FullName
	}
	if req.Department != nil {
		params.Department = *req.Department
	}
	if req.Location != nil {
		params.Location = *req.Location
	}
	if req.Phone != nil {
		params.Phone = *req.Phone
	}
	if req.Tags != nil {
		params.Tags = encodeTags(*req.Tags)
	}

	if fieldErrors := validateEmployeeFields(params.FullName, params.Email); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	if params.Email != existing.Email {
		exists, err := h.queries.EmployeeEmailExistsExcluding(ctx, store.EmployeeEmailExistsExcludingParams{
			Email: params.Email,
			ID:    existing.ID,
		})
		if err != nil {
			WriteInternalError(w, "Failed to check email")
			return
		}
		if exists != 0 {
			WriteValidationError(w, map[string]string{"email": "Email already exists"})
			return
		}
	}

	employee, err := h.queries.UpdateEmployee(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update employee")
		return
	}

	WriteSuccess(w, storeEmployeeToResponse(employee), nil)
}

// DeleteEmployee handles DELETE /api/v1/employees/{id}.
// Historical analytics events for the employee are kept.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employee, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteEmployee(ctx, employee.ID); err != nil {
		WriteInternalError(w, "Failed to delete employee")
		return
	}

	_ = h.audit.LogEmployeeEvent(ctx, model.AuditLevelInfo, "Employee deleted",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"employee_id": employee.ID, "email": employee.Email})

	w.WriteHeader(http.StatusNoContent)
}

// requireEmployee fetches the employee addressed by the {id} URL parameter.
func (h *Handler) requireEmployee(w http.ResponseWriter, r *http.Request) (store.Employee, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		WriteBadRequest(w, "Invalid employee ID", nil)
		return store.Employee{}, false
	}

	employee, err := h.queries.GetEmployeeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Employee not found")
		} else {
			WriteInternalError(w, "Failed to retrieve employee")
		}
		return store.Employee{}, false
	}
	return employee, true
}
