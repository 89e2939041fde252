package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeBirthdayAdjustment(t *testing.T) {
	dob := date(1990, 6, 15)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"day before birthday", date(2020, 6, 14), 29},
		{"on birthday", date(2020, 6, 15), 30},
		{"day after birthday", date(2020, 6, 16), 30},
		{"earlier month", date(2020, 5, 30), 29},
		{"later month", date(2020, 7, 1), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(dob, tt.now))
		})
	}
}

func TestIsMinorAtBoundary(t *testing.T) {
	dob := date(2008, 3, 10)

	assert.True(t, IsMinorAt(dob, date(2026, 3, 9)), "day before 18th birthday")
	assert.False(t, IsMinorAt(dob, date(2026, 3, 10)), "on 18th birthday")
}

func TestPrimaryAllocationSumsOnlyPrimaries(t *testing.T) {
	app := &Application{
		Beneficiaries: []Beneficiary{
			{Type: BeneficiaryPrimary, Percentage: 60},
			{Type: BeneficiaryPrimary, Percentage: 40},
			{Type: BeneficiaryContingent, Percentage: 100},
		},
	}
	assert.Equal(t, 100.0, app.PrimaryAllocation())
}

func TestStatusEditable(t *testing.T) {
	assert.True(t, StatusDraft.Editable())
	for _, s := range []Status{StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected} {
		assert.False(t, s.Editable(), string(s))
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusUnderReview.Terminal())
}

func TestStepProgress(t *testing.T) {
	app := &Application{}
	progress := app.StepProgress()
	assert.False(t, progress.PersonalInfo)
	assert.False(t, progress.Product)

	app.PersonalInfo = &PersonalInfo{FirstName: "Ana"}
	app.TermsAccepted = true
	progress = app.StepProgress()
	assert.True(t, progress.PersonalInfo)
	assert.False(t, progress.Acceptance, "both acceptance flags are needed")
}
