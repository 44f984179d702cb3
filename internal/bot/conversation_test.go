package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-calendar/internal/model"
)

func TestParsePriorityInput(t *testing.T) {
	cases := map[string]model.Priority{
		btnHigh:   model.PriorityHigh,
		"1":       model.PriorityHigh,
		"High":    model.PriorityHigh,
		btnMedium: model.PriorityMedium,
		"medium":  model.PriorityMedium,
		btnLow:    model.PriorityLow,
		" 3 ":     model.PriorityLow,
		btnSkip:   0,
		"skip":    0,
	}
	for in, want := range cases {
		got, err := parsePriorityInput(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parsePriorityInput("urgent")
	assert.Error(t, err)
}

func TestDialogInputs(t *testing.T) {
	assert.True(t, isSkipInput(btnSkip))
	assert.True(t, isSkipInput(" Skip "))
	assert.True(t, isSkipInput("-"))
	assert.False(t, isSkipInput("tomorrow"))

	assert.True(t, isCancelDialogInput(btnCancelDialog))
	assert.False(t, isCancelDialogInput("cancel"))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "⚠️ invalid title: must not be empty",
		userMessage(&model.ValidationError{Field: "title", Reason: "must not be empty"}))
	assert.Equal(t, "Task not found.", userMessage(&model.NotFoundError{ID: 5}))
	assert.Equal(t, "Something went wrong: store list tasks: a &lt; b",
		userMessage(&model.StoreError{Op: "list tasks", Err: errors.New("a < b")}))
}

func TestParseID(t *testing.T) {
	id, err := parseID(" #12 ")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	for _, bad := range []string{"", "0", "abc", "-1"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}
