package services

import (
	"testing"

	"coursekit-backend-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReorder(t *testing.T) {
	current := []string{"a", "b", "c"}

	assert.NoError(t, ValidateReorder(current, []string{"c", "a", "b"}))

	err := ValidateReorder(current, []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", err.(ServiceError).Code)

	err = ValidateReorder(current, []string{"a", "b", "x"})
	require.Error(t, err)

	err = ValidateReorder(current, []string{"a", "a", "b"})
	require.Error(t, err)

	assert.NoError(t, ValidateReorder(nil, nil))
}

func TestEvaluatePublishGate(t *testing.T) {
	assert.NoError(t, EvaluatePublishGate(3, 0))

	err := EvaluatePublishGate(0, 0)
	require.Error(t, err)
	assert.Equal(t, "PUBLISH_BLOCKED", err.(ServiceError).Code)

	err = EvaluatePublishGate(2, 1)
	require.Error(t, err)
	assert.Equal(t, "PUBLISH_BLOCKED", err.(ServiceError).Code)
}

func TestCanMutateCourse(t *testing.T) {
	course := models.Course{ID: "c1", InstructorID: "owner"}

	assert.True(t, CanMutateCourse(models.Account{ID: "x", Role: RoleAdmin}, course))
	assert.True(t, CanMutateCourse(models.Account{ID: "owner", Role: RoleInstructor}, course))
	assert.False(t, CanMutateCourse(models.Account{ID: "other", Role: RoleInstructor}, course))
	assert.False(t, CanMutateCourse(models.Account{ID: "owner", Role: RoleStudent}, course))
}
