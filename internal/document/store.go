package document

import (
	"context"

	id "covera/pkg/domain"
)

// Store persists document metadata per application.
type Store interface {
	Add(ctx context.Context, doc *Document) error
	ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*Document, error)
}

// Categories reduces a document list to its distinct category set.
func Categories(docs []*Document) map[Category]bool {
	out := make(map[Category]bool, len(docs))
	for _, d := range docs {
		out[d.Category] = true
	}
	return out
}
