package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"rotrack/internal/api/handler/dto"
	"rotrack/internal/domain/settings"
	"rotrack/internal/pkg/apperrors"
)

type SettingsHandler struct {
	repo   settings.Repository
	logger *slog.Logger
}

func NewSettingsHandler(repo settings.Repository, l *slog.Logger) *SettingsHandler {
	if repo == nil {
		panic("settings repository cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &SettingsHandler{
		repo:   repo,
		logger: l.With("component", "SettingsHandler"),
	}
}

// GetSettings handles GET /settings
// @Summary Retrieve application settings
// @Description Returns the stored settings. An unset payment link comes back empty; reminder messages fall back to a placeholder.
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.SettingsResponse "Current settings"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /settings [get]
// @Security BearerAuth
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received get settings request")

	appSettings, err := h.repo.Load(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to load settings", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.SettingsResponse{PaymentLink: appSettings.PaymentLink})
}

// UpdateSettings handles PUT /settings
// @Summary Update application settings
// @Description Replaces the stored settings document.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} dto.SettingsResponse "Updated settings"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /settings [put]
// @Security BearerAuth
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received update settings request")

	var req dto.UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	appSettings := settings.AppSettings{PaymentLink: req.PaymentLink}
	if err := h.repo.Store(r.Context(), appSettings); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to store settings", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Settings updated successfully")
	respondJSON(w, http.StatusOK, dto.SettingsResponse{PaymentLink: appSettings.PaymentLink})
}
