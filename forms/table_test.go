package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorLabel(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("IC Markets (ID: 3)", SelectorLabel(map[string]any{"id": 3, "name": "IC Markets"}, 0))
	assert.Equal("Manuel Carini (ID: 9)", SelectorLabel(map[string]any{"id": 9, "client_name": "Manuel Carini"}, 0))
	assert.Equal("ID: 5", SelectorLabel(map[string]any{"id": 5, "status": "Active"}, 0))
	assert.Equal("Row 4", SelectorLabel(map[string]any{"status": "Active"}, 3))
	// Empty name falls through to the id.
	assert.Equal("ID: 2", SelectorLabel(map[string]any{"id": 2, "name": ""}, 0))
}

func TestFormatDetails(t *testing.T) {
	assert := assert.New(t)
	out := FormatDetails(map[string]any{
		"id":          7,
		"name":        "IC Markets",
		"min_deposit": 250.5,
		"notes":       nil,
	})

	assert.NotContains(out, "id")
	assert.Equal("IC Markets", out["Name"])
	assert.Equal("250.50", out["Min Deposit"])
	assert.Equal("N/A", out["Notes"])
}

func TestHeaderLabel_FallsBackToRawName(t *testing.T) {
	assert.Equal(t, "Status", HeaderLabel("status"))
	assert.Equal(t, "some_custom_col", HeaderLabel("some_custom_col"))
}
