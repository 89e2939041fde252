package underwriting

import (
	"context"

	id "covera/pkg/domain"
)

// Store persists decisions append-only. There is no update or delete:
// corrections happen through a fresh decision on resubmission.
type Store interface {
	Add(ctx context.Context, decision *Decision) error
	ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*Decision, error)
}
