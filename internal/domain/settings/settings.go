package settings

import "context"

// PaymentLinkPlaceholder is substituted into reminder messages when no
// payment link has been configured yet.
const PaymentLinkPlaceholder = "[Your Payment Link - Please configure in Settings]"

// AppSettings is the whole settings document; reads and writes replace it
// wholesale rather than patching fields.
type AppSettings struct {
	PaymentLink string `json:"paymentLink,omitempty"`
}

type Repository interface {
	Load(ctx context.Context) (AppSettings, error)

	Store(ctx context.Context, s AppSettings) error
}
