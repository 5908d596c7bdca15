package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/domain/customer"
	"swiftremind/internal/pkg/apperrors"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// CreateCustomer handles POST /customers
// @Summary Create a new customer
// @Description Creates a customer in the caller's organisation. Fails with 409 if another active customer in the organisation already has the same phone number.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerResponse "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Phone number already in use within the organisation"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), viewer, customer.NewCustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(created)
	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.String("customerID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve customer details
// @Description Retrieves a customer by ID, scoped to the caller's organisation. Soft-deleted customers are only visible to admins and superadmins.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	customerID, err := idFromURL(r, "customerID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	found, err := h.service.GetCustomer(r.Context(), viewer, customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer retrieved successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(found))
}

// ListCustomers handles GET /customers
// @Summary List customers
// @Description Lists customers in the caller's organisation with paging and optional search across name, phone and business name.
// @Tags Customers
// @Produce json
// @Param page query int false "Page number (1-based)" Example(1)
// @Param limit query int false "Page size, capped at 100" Example(20)
// @Param search query string false "Substring match on name, phone or business name"
// @Success 200 {object} dto.PagedResponse "Page of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit, search := pagination(r)
	customers, total, err := h.service.ListCustomers(r.Context(), viewer, customer.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: search,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(customers)), slog.Int("total", total))
	respondJSON(w, http.StatusOK, dto.NewPagedResponse(dto.NewCustomerListResponse(customers), total, page, limit))
}

// UpdateCustomer handles PATCH /customers/{customerID}
// @Summary Update a customer
// @Description Applies a partial update. When the body touches pendingAmount or dueDate the payment status is re-derived server-side and any status in the payload is overridden. A body of exactly {"deleted": false} restores a soft-deleted customer instead.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.UpdateCustomerRequest true "Partial update payload"
// @Success 200 {object} dto.CustomerResponse "Updated customer"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Phone number already in use within the organisation"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [patch]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	customerID, err := idFromURL(r, "customerID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if r.Body == nil {
		respondError(w, fmt.Errorf("%w: no request body", apperrors.ErrInvalidArgument))
		return
	}
	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to read request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	// The exact body {"deleted": false} is the restore operation. Anything
	// else, including that pair alongside other fields, is an update.
	if dto.IsRestorePayload(body) {
		restored, err := h.service.RestoreCustomer(r.Context(), viewer, customerID)
		if err != nil {
			level := slog.LevelWarn
			if !errors.Is(err, apperrors.ErrNotFound) {
				level = slog.LevelError
			}
			h.logger.Log(r.Context(), level, "Service failed to restore customer", slog.Any("error", err))
			respondError(w, err)
			return
		}
		h.logger.InfoContext(r.Context(), "Customer restored successfully", slog.Int64("customerID", customerID))
		respondJSON(w, http.StatusOK, dto.NewCustomerResponse(restored))
		return
	}

	var req dto.UpdateCustomerRequest
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.UpdateCustomer(r.Context(), viewer, customerID, patch)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) &&
			!errors.Is(err, apperrors.ErrConflict) &&
			!errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer updated successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(updated))
}

// DeleteCustomer handles DELETE /customers/{customerID}
// @Summary Soft-delete a customer
// @Description Marks a customer as deleted and writes an audit entry. The record stays in storage and can be restored later.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 204 "Customer successfully deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [delete]
// @Security BearerAuth
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	customerID, err := idFromURL(r, "customerID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if _, err := h.service.DeleteCustomer(r.Context(), viewer, customerID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusNoContent, nil)
}
