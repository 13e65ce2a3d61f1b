package dto

import (
	"rotrack/internal/domain/reminder"
	"rotrack/internal/pkg/apperrors"
)

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

type ImportCustomersRequest struct {
	// Data is the raw CSV text, header line optional.
	Data string `json:"data"`
}

type ImportErrorDetail struct {
	Line    int    `json:"line,omitempty"`
	Data    string `json:"data,omitempty"`
	Message string `json:"message"`
}

type ImportCustomersResponse struct {
	Imported int                 `json:"imported"`
	Errors   []ImportErrorDetail `json:"errors"`
}

func NewImportCustomersResponse(imported int, importErrors []apperrors.ImportError) ImportCustomersResponse {
	details := make([]ImportErrorDetail, len(importErrors))
	for i, e := range importErrors {
		details[i] = ImportErrorDetail{Line: e.Line, Data: e.Data, Message: e.Message}
	}
	return ImportCustomersResponse{Imported: imported, Errors: details}
}

type ExportCustomersResponse struct {
	Data string `json:"data"`
}

type UpdateSettingsRequest struct {
	PaymentLink string `json:"paymentLink"`
}

type SettingsResponse struct {
	PaymentLink string `json:"paymentLink"`
}

type ReminderResponse struct {
	ID             string `json:"id"`
	CustomerID     string `json:"customerId"`
	CustomerName   string `json:"customerName"`
	CustomerMobile string `json:"customerMobile"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	MessageHi      string `json:"messageHi"`
}

func NewReminderResponse(r reminder.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:             r.ID,
		CustomerID:     r.CustomerID,
		CustomerName:   r.CustomerName,
		CustomerMobile: r.CustomerMobile,
		Type:           string(r.Type),
		Message:        r.Message,
		MessageHi:      r.MessageHi,
	}
}
