package handler

import (
	"log/slog"
	"net/http"

	"rotrack/internal/api/handler/dto"
	"rotrack/internal/domain/reminder"
)

type ReminderHandler struct {
	service reminder.Service
	logger  *slog.Logger
}

func NewReminderHandler(s reminder.Service, l *slog.Logger) *ReminderHandler {
	if s == nil {
		panic("reminder service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReminderHandler{
		service: s,
		logger:  l.With("component", "ReminderHandler"),
	}
}

// GetDailyReminders handles GET /reminders
// @Summary Today's consolidated reminders
// @Description Returns one consolidated bilingual reminder per customer with overdue or currently due months. Generated on first call of the day and cached.
// @Tags Reminders
// @Produce json
// @Success 200 {array} dto.ReminderResponse "Today's reminders"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reminders [get]
// @Security BearerAuth
func (h *ReminderHandler) GetDailyReminders(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received get daily reminders request")

	reminders, err := h.service.DailyReminders(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to get daily reminders", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.ReminderResponse, len(reminders))
	for i, rem := range reminders {
		resp[i] = dto.NewReminderResponse(rem)
	}

	h.logger.InfoContext(r.Context(), "Daily reminders retrieved", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// RegenerateReminders handles POST /reminders/regenerate
// @Summary Force reminder regeneration
// @Description Bypasses the daily cache, regenerates today's reminders and republishes reminder events.
// @Tags Reminders
// @Produce json
// @Success 200 {array} dto.ReminderResponse "Freshly generated reminders"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reminders/regenerate [post]
// @Security BearerAuth
func (h *ReminderHandler) RegenerateReminders(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received regenerate reminders request")

	reminders, err := h.service.Regenerate(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to regenerate reminders", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.ReminderResponse, len(reminders))
	for i, rem := range reminders {
		resp[i] = dto.NewReminderResponse(rem)
	}

	h.logger.InfoContext(r.Context(), "Reminders regenerated", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}
