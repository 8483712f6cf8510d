package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Kind  string `json:"kind" validate:"omitempty,oneof=rhp drhp"`
}

func TestStruct_RequiredUsesJSONNames(t *testing.T) {
	err := Struct(sample{Name: "Alice"})
	require.Error(t, err)

	assert.Equal(t, []string{"email"}, Fields(err))
	assert.Equal(t, map[string]string{"email": "is required"}, ToDetails(err))
}

func TestStruct_WhitespaceIsNotEmpty(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: " ", Email: "a@x.com"}))
}

func TestStruct_OneOf(t *testing.T) {
	err := Struct(sample{Name: "a", Email: "b", Kind: "prospectus"})
	require.Error(t, err)
	assert.Equal(t, "must be one of rhp drhp", ToDetails(err)["kind"])
}

func TestToDetails_JSONErrors(t *testing.T) {
	var v sample
	err := json.Unmarshal([]byte(`{"name":`), &v)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}
