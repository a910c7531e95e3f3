package common

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "valid UUID", input: "550e8400-e29b-41d4-a716-446655440000"},
		{name: "valid UUID with surrounding whitespace", input: " 550e8400-e29b-41d4-a716-446655440000 "},
		{name: "empty string", input: "", expectError: true},
		{name: "whitespace only", input: "   ", expectError: true},
		{name: "not a UUID", input: "not-a-uuid", expectError: true},
		{name: "truncated", input: "550e8400-e29b-41d4-a716", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ValidateUUID(tt.input, "id")
			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, uuid.Nil, id)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"), id)
			}
		})
	}
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, 0)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(1000, -5)
	assert.Equal(t, 200, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(25, 75)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 75, offset)
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(3, "rating", 1, 5))
	assert.Error(t, ValidateIntRange(0, "rating", 1, 5))
	assert.Error(t, ValidateIntRange(6, "rating", 1, 5))
}
