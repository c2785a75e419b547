package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return NewSchema("Broker").
		Text("name", "Name", true).
		Select("status", "Status", []string{"Active", "Inactive"}, true).
		Number("min_deposit", "Min Deposit", false, 0.0).
		Textarea("notes", "Notes")
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	errs := testSchema().Validate(map[string]any{
		"name":        "   ",
		"min_deposit": "not a number",
	})

	require.Len(t, errs, 3)
	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "min_deposit")
}

func TestValidate_EmptyListCountsAsMissing(t *testing.T) {
	s := NewSchema("Role").
		Add(Field{Name: "permissions", Label: "Permissions", Kind: FieldMultiSelect, Required: true})

	errs := s.Validate(map[string]any{"permissions": []string{}})
	require.Len(t, errs, 1)
	assert.Equal(t, "permissions", errs[0].Field)
}

func TestValidate_AcceptsNumericStrings(t *testing.T) {
	errs := testSchema().Validate(map[string]any{
		"name":        "IC Markets",
		"status":      "Active",
		"min_deposit": "250.50",
	})
	assert.Empty(t, errs)
}

func TestSubmit_InvalidNeverReachesPersist(t *testing.T) {
	called := 0
	res := testSchema().Submit(map[string]any{"name": ""}, ModeCreate, func(values map[string]any, mode string) bool {
		called++
		return true
	})

	assert.Equal(t, 0, called)
	assert.False(t, res.Saved)
	assert.NotEmpty(t, res.Errors)
	// Submitted values survive for a retry.
	assert.Equal(t, "", res.Values["name"])
}

func TestSubmit_PersistCalledOnceWithDefaults(t *testing.T) {
	require := require.New(t)
	called := 0
	var got map[string]any
	var gotMode string

	res := testSchema().Submit(map[string]any{
		"name":   "IC Markets",
		"status": "Active",
	}, ModeCreate, func(values map[string]any, mode string) bool {
		called++
		got = values
		gotMode = mode
		return true
	})

	require.Equal(1, called)
	require.True(res.Saved)
	require.Equal(ModeCreate, gotMode)
	// Missing optional fields are filled with their defaults.
	require.Equal(0.0, got["min_deposit"])
	require.Contains(got, "notes")
}

func TestSubmit_FalsyPersistKeepsValues(t *testing.T) {
	values := map[string]any{"name": "IC Markets", "status": "Active"}
	res := testSchema().Submit(values, ModeEdit, func(map[string]any, string) bool {
		return false
	})

	assert.False(t, res.Saved)
	assert.Equal(t, "save failed, please retry", res.Message)
	assert.Equal(t, "IC Markets", res.Values["name"])
	assert.Empty(t, res.Errors)
}
