package goshape_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
)

// requireInvalid asserts err is a validation error and returns it.
func requireInvalid(t *testing.T, err error) *goshape.ValidationError {
	t.Helper()
	require.Error(t, err)
	ve, ok := goshape.AsValidationError(err)
	require.Truef(t, ok, "expected a validation error, got %T: %v", err, err)
	return ve
}

func leafPaths(ve *goshape.ValidationError) []string {
	var out []string
	for _, l := range ve.Leaves() {
		out = append(out, l.Path)
	}
	return out
}

func leafTypes(ve *goshape.ValidationError) []string {
	var out []string
	for _, l := range ve.Leaves() {
		out = append(out, l.Type)
	}
	return out
}

func TestValidationError_AggregateMessage(t *testing.T) {
	s := goshape.Object(
		goshape.Key("a", goshape.String().Required()),
		goshape.Key("b", goshape.String().Required()),
	)
	_, err := s.ValidateSync(map[string]any{}, goshape.AbortEarly(false))
	ve := requireInvalid(t, err)

	assert.Equal(t, "2 errors occurred", ve.Message)
	assert.Equal(t, []string{"a is a required field", "b is a required field"}, ve.Errors)
	assert.Equal(t, []string{"a", "b"}, leafPaths(ve))
	assert.Contains(t, ve.Error(), "a is a required field; b is a required field")
}

func TestValidationError_ErrorTruncatesLongLists(t *testing.T) {
	var entries []goshape.Entry
	for i := range 5 {
		entries = append(entries, goshape.Key(fmt.Sprintf("f%d", i), goshape.Number().Required()))
	}
	_, err := goshape.Object(entries...).ValidateSync(map[string]any{}, goshape.AbortEarly(false))
	ve := requireInvalid(t, err)
	assert.Len(t, ve.Inner, 5)
	assert.Contains(t, ve.Error(), "(total 5)")
}

func TestValidationError_LeavesOfLeaf(t *testing.T) {
	_, err := goshape.String().Required().ValidateSync(goshape.Undefined)
	ve := requireInvalid(t, err)
	require.Len(t, ve.Leaves(), 1)
	assert.Same(t, ve, ve.Leaves()[0])
	assert.Equal(t, goshape.TestRequired, ve.Type)
	assert.Equal(t, "this is a required field", ve.Error())
}

func TestIsValidationError_WrappedAndFatal(t *testing.T) {
	_, err := goshape.Number().ValidateSync("x")
	require.Error(t, err)
	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, goshape.IsValidationError(wrapped))

	assert.False(t, goshape.IsValidationError(errors.New("boom")))
	assert.False(t, goshape.IsValidationError(nil))
}

func TestConfigError_Unwrap(t *testing.T) {
	_, err := goshape.NewRef("")
	require.Error(t, err)
	var ce *goshape.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, goshape.ErrInvalidReference)
	assert.Equal(t, "ref", ce.Op)
	assert.False(t, goshape.IsValidationError(err))
}
