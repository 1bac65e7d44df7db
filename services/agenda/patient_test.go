package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySuggestion(t *testing.T) {
	assert.Equal(t, suggestionSearching, classifySuggestion("", false))
	assert.Equal(t, suggestionSearching, classifySuggestion("Searching…", false))
	assert.Equal(t, suggestionSearching, classifySuggestion("Procurando...", false))
	assert.Equal(t, suggestionMissing, classifySuggestion("Nenhum resultado encontrado", false))
	assert.Equal(t, suggestionMissing, classifySuggestion("Maria Silva", true))
	assert.Equal(t, suggestionExisting, classifySuggestion("MARIA SILVA - 123.456.789-00", false))
}

func TestBirthDatePattern(t *testing.T) {
	assert.True(t, birthDatePattern.MatchString("MARIA SILVA - 01/02/1990"))
	assert.False(t, birthDatePattern.MatchString("MARIA SILVA - 123.456.789-00"))
	assert.False(t, birthDatePattern.MatchString("1/2/1990"))
}

func TestSlotRowID(t *testing.T) {
	assert.Equal(t, "0930", slotRowID("09:30"))
	assert.Equal(t, "1400", slotRowID("14:00"))
}
