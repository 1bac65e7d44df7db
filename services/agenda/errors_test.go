package agenda

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAgendaError(t *testing.T) {
	assert.Nil(t, AsAgendaError(nil))

	ae := AsAgendaError(NewError(CodeNotFound, "Nenhum horário encontrado."))
	require.NotNil(t, ae)
	assert.Equal(t, CodeNotFound, ae.Code)

	wrapped := AsAgendaError(errors.New("connection reset"))
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.Equal(t, "connection reset", wrapped.Message)
}
