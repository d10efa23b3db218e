package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/styles"
)

func TestNewQueryInput(t *testing.T) {
	input := NewQueryInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
}

func TestNewQueryInput_NilStyles(t *testing.T) {
	input := NewQueryInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestQueryInput_Init(t *testing.T) {
	input := NewQueryInput(nil)

	assert.Nil(t, input.Init())
}

func TestQueryInput_UpdateReportsChange(t *testing.T) {
	input := NewQueryInput(nil)

	updated, _, changed := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Equal(t, input, updated)
	assert.True(t, changed)
	assert.Equal(t, "a", input.Value())

	_, _, changed = input.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.False(t, changed)
}

func TestQueryInput_View(t *testing.T) {
	input := NewQueryInput(styles.PlainStyles())

	assert.Contains(t, input.View(), "Find:")
}

func TestQueryInput_SetValueAndReset(t *testing.T) {
	input := NewQueryInput(nil)

	input.SetValue("hello world")
	assert.Equal(t, "hello world", input.Value())

	input.Reset()
	assert.Equal(t, "", input.Value())
}

func TestQueryInput_SetWidth(t *testing.T) {
	input := NewQueryInput(nil)

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())
	assert.Equal(t, 88, input.textinput.Width)

	input.SetWidth(10)
	assert.Equal(t, 20, input.textinput.Width)
}
