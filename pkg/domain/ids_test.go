package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "covera/pkg/domain-errors"
)

// Parsing invariant: IDs must be valid, non-empty, non-nil UUIDs. All Parse*
// helpers share one implementation, so ParseApplicationID stands in for all.
func TestParseApplicationID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseApplicationID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseApplicationID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseApplicationID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		parsed, err := ParseApplicationID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ApplicationID(valid), parsed)
	})
}

// Typed IDs stay distinct at compile time; this documents the invariant.
func TestTypeDistinction(t *testing.T) {
	appID := ApplicationID(uuid.New())
	planID := PlanID(uuid.New())

	// var _ ApplicationID = planID  // compile error if uncommented

	assert.NotEqual(t, uuid.UUID(appID), uuid.UUID(planID))
}
