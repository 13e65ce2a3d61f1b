package customer

import "context"

// Repository is the storage capability for customers. Two implementations
// exist: the Postgres transactional store and the in-memory local store used
// for guest sessions; one is selected at startup.
//
// UpdatePayments must apply the payment list as a single atomic replacement
// (read-modify-write) so concurrent edits from multiple sessions cannot lose
// updates. Delete removes the customer and all of its payments atomically.
type Repository interface {
	Save(ctx context.Context, cust *Customer) error

	Update(ctx context.Context, cust *Customer) error

	UpdatePayments(ctx context.Context, cust *Customer) error

	FindByID(ctx context.Context, customerID string) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	SerialNumberExists(ctx context.Context, serialNumber int64) (bool, error)

	Delete(ctx context.Context, customerID string) error
}
