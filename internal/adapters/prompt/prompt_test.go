package prompt

import (
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mcsmith/internal/core/domain"
)

func TestConfirmResult(t *testing.T) {
	ok, err := confirmResult("add anyway?", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = confirmResult("add anyway?", promptui.ErrAbort)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = confirmResult("add anyway?", promptui.ErrInterrupt)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), domain.ErrPromptFailed.Error())
}

func TestWrap(t *testing.T) {
	err := wrap(errors.New("^D"), "World Name")
	assert.Contains(t, err.Error(), domain.ErrPromptFailed.Error())
	assert.Contains(t, err.Error(), "^D")
}
