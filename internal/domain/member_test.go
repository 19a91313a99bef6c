package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	require.NoError(t, ValidateUsername("Ann"))
	require.ErrorIs(t, ValidateUsername(""), ErrUsernameEmpty)
	require.ErrorIs(t, ValidateUsername(strings.Repeat("x", MaxUsernameLen+1)), ErrUsernameTooLong)
	require.NoError(t, ValidateUsername(strings.Repeat("x", MaxUsernameLen)))
}
