package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rotrack/internal/api/handler/dto"
	"rotrack/internal/domain/customer"
	"rotrack/internal/pkg/apperrors"
	"rotrack/internal/pkg/timeutil"
)

type CustomerHandler struct {
	service customer.Service
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.Service, l *slog.Logger) *CustomerHandler {
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

func getCustomerIDFromURL(r *http.Request) (string, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return "", fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	if _, err := uuid.Parse(idStr); err != nil {
		return "", fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return idStr, nil
}

// CreateCustomer handles POST /customers
// @Summary Create a new customer
// @Description Creates a new RO rental customer and pre-generates their monthly payment schedule from the installation date.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerResponse "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Serial number already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error during creation"
// @Router /customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {

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
	h.logger.DebugContext(r.Context(), "Request validation passed")

	createdCustomer, err := h.service.CreateCustomer(r.Context(), req.ToInput())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrDuplicateSerial) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(createdCustomer, timeutil.StartOfDay(timeutil.Now()))
	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.String("customerID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve customer details
// @Description Retrieves a customer with their full payment schedule. Payment statuses are classified as of today, so past unpaid months show as Overdue.
// @Tags Customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {

	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received get customer request")

	domainCustomer, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(domainCustomer, timeutil.StartOfDay(timeutil.Now()))
	h.logger.InfoContext(r.Context(), "Customer retrieved successfully")
	respondJSON(w, http.StatusOK, resp)
}

// ListCustomers handles GET /customers
// @Summary List customers
// @Description Retrieves all customers ordered by serial number, each with their payment schedule classified as of today.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	today := timeutil.StartOfDay(timeutil.Now())
	resp := make([]dto.CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = dto.NewCustomerResponse(cust, today)
	}

	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// UpdateCustomer handles PUT /customers/{customerID}
// @Summary Update customer details
// @Description Updates a customer's descriptive fields. Changing the installation date re-anchors the payment schedule while preserving paid history.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param request body dto.UpdateCustomerRequest true "Customer update payload"
// @Success 200 {object} dto.CustomerResponse "Customer successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [put]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {

	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received update customer request")

	var req dto.UpdateCustomerRequest
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
	h.logger.DebugContext(r.Context(), "Request validation passed")

	updatedCustomer, err := h.service.UpdateCustomer(r.Context(), customerID, req.ToInput())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(updatedCustomer, timeutil.StartOfDay(timeutil.Now()))
	h.logger.InfoContext(r.Context(), "Customer updated successfully")
	respondJSON(w, http.StatusOK, resp)
}

// DeleteCustomer handles DELETE /customers/{customerID}
// @Summary Delete a customer
// @Description Removes a customer and their entire payment schedule.
// @Tags Customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 204 "Customer successfully deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [delete]
// @Security BearerAuth
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {

	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received delete customer request")

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted successfully")
	respondJSON(w, http.StatusNoContent, nil)
}

// RecordPayments handles PUT /customers/{customerID}/payments
// @Summary Record payment status changes
// @Description Marks one or more monthly payment records as paid or pending. A paid month without an explicit amount defaults to the customer's current monthly rent.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param request body dto.RecordPaymentsRequest true "Payment updates (months are zero-based)"
// @Success 200 {object} dto.CustomerResponse "Updated customer with refreshed schedule"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/payments [put]
// @Security BearerAuth
func (h *CustomerHandler) RecordPayments(w http.ResponseWriter, r *http.Request) {

	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received record payments request")

	var req dto.RecordPaymentsRequest
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
	h.logger.DebugContext(r.Context(), "Request validation passed")

	updates := make([]customer.PaymentUpdate, len(req.Payments))
	for i := range req.Payments {
		updates[i] = req.Payments[i].ToUpdate()
	}

	updatedCustomer, err := h.service.RecordPayments(r.Context(), customerID, updates)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to record payments", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(updatedCustomer, timeutil.StartOfDay(timeutil.Now()))
	h.logger.InfoContext(r.Context(), "Payments recorded successfully", slog.Int("months", len(updates)))
	respondJSON(w, http.StatusOK, resp)
}

// ImportCustomers handles POST /customers/import
// @Summary Bulk import customers from CSV
// @Description Imports customers from CSV text. Each row is validated independently; valid rows are imported and invalid rows are reported with their line numbers. The batch never aborts.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.ImportCustomersRequest true "CSV payload"
// @Success 200 {object} dto.ImportCustomersResponse "Import result with per-row errors"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/import [post]
// @Security BearerAuth
func (h *CustomerHandler) ImportCustomers(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received import customers request")

	var req dto.ImportCustomersRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if strings.TrimSpace(req.Data) == "" {
		h.logger.WarnContext(r.Context(), "Validation failed: CSV data is empty")
		respondError(w, fmt.Errorf("%w: data cannot be empty", apperrors.ErrInvalidArgument))
		return
	}

	result, err := h.service.ImportCustomers(r.Context(), req.Data)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to import customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer import finished",
		slog.Int("imported", result.Imported), slog.Int("rejected", len(result.Errors)))
	respondJSON(w, http.StatusOK, dto.NewImportCustomersResponse(result.Imported, result.Errors))
}

// ExportCustomers handles GET /customers/export
// @Summary Export all customers to CSV
// @Description Exports every customer as CSV text with a header row. The output reimports cleanly through the import endpoint.
// @Tags Customers
// @Produce json
// @Success 200 {object} dto.ExportCustomersResponse "CSV payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/export [get]
// @Security BearerAuth
func (h *CustomerHandler) ExportCustomers(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received export customers request")

	data, err := h.service.ExportCustomers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to export customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customers exported successfully")
	respondJSON(w, http.StatusOK, dto.ExportCustomersResponse{Data: data})
}

// DashboardStats handles GET /dashboard/stats
// @Summary Dashboard statistics
// @Description Returns total customers, rent collected and due for the current month, and the customers with overdue payments.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} customer.DashboardStats "Dashboard statistics"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/stats [get]
// @Security BearerAuth
func (h *CustomerHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received dashboard stats request")

	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to compute dashboard stats", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Dashboard stats computed successfully")
	respondJSON(w, http.StatusOK, stats)
}
