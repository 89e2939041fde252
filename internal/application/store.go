package application

import (
	"context"

	id "covera/pkg/domain"
)

// Store persists the application aggregate. The aggregate is read and
// written whole: beneficiaries and the health declaration are owned children
// replaced together with the root, never patched field by field.
type Store interface {
	Create(ctx context.Context, app *Application) error

	Get(ctx context.Context, applicationID id.ApplicationID) (*Application, error)

	ListByUser(ctx context.Context, userID id.UserID) ([]*Application, error)

	// Update saves the aggregate if app.Version still matches the stored
	// version, then bumps it. Returns sentinel.ErrConflict on a stale
	// version so concurrent edits are detected, not silently lost.
	Update(ctx context.Context, app *Application) error
}
