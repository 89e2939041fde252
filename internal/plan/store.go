package plan

import (
	"context"

	id "covera/pkg/domain"
)

// Store is the read-only catalogue lookup consumed by the core.
type Store interface {
	GetPlan(ctx context.Context, planID id.PlanID) (*Plan, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	ListPlansByProduct(ctx context.Context, productID id.ProductID) ([]*Plan, error)
}
