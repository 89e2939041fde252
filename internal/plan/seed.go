package plan

import (
	"github.com/google/uuid"

	id "covera/pkg/domain"
)

// Seed fills an in-memory store with the development catalogue. IDs are
// fixed so local clients and tests can reference plans without a lookup.
func Seed(store *InMemoryStore) {
	termLife := &Product{
		ID:          id.ProductID(uuid.MustParse("a1f7c0de-0001-4c61-9a10-2a4f6f1f4a01")),
		Name:        "Term Life",
		Description: "Level-premium term life coverage",
		Active:      true,
	}
	store.Put(termLife,
		&Plan{
			ID:             id.PlanID(uuid.MustParse("b2e8d1ef-0001-4d72-8b21-3b5f7f2f5b01")),
			ProductID:      termLife.ID,
			Name:           "Term Life 250K / 20yr",
			MinAge:         18,
			MaxAge:         65,
			CoverageAmount: 250_000,
			TermYears:      20,
			BasePremiums: map[PaymentFrequency]float64{
				FrequencyAnnual: 1200,
			},
			RequiresMedicalExam:  false,
			AccidentalDeathRider: 50_000,
		},
		&Plan{
			ID:             id.PlanID(uuid.MustParse("b2e8d1ef-0002-4d72-8b21-3b5f7f2f5b02")),
			ProductID:      termLife.ID,
			Name:           "Term Life 750K / 20yr",
			MinAge:         18,
			MaxAge:         60,
			CoverageAmount: 750_000,
			TermYears:      20,
			BasePremiums: map[PaymentFrequency]float64{
				FrequencyAnnual:  3400,
				FrequencyMonthly: 295,
			},
			RequiresMedicalExam:  true,
			CriticalIllnessRider: 100_000,
		},
	)

	wholeLife := &Product{
		ID:          id.ProductID(uuid.MustParse("a1f7c0de-0002-4c61-9a10-2a4f6f1f4a02")),
		Name:        "Whole Life",
		Description: "Permanent coverage with cash value",
		Active:      true,
	}
	store.Put(wholeLife,
		&Plan{
			ID:             id.PlanID(uuid.MustParse("b2e8d1ef-0003-4d72-8b21-3b5f7f2f5b03")),
			ProductID:      wholeLife.ID,
			Name:           "Whole Life 500K",
			MinAge:         25,
			MaxAge:         55,
			CoverageAmount: 500_000,
			TermYears:      30,
			BasePremiums: map[PaymentFrequency]float64{
				FrequencyMonthly: 410,
			},
			RequiresMedicalExam: true,
		},
	)
}
