package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitlePanel(t *testing.T) {
	name, specialty, ok := parseTitlePanel("Dr. Ana Souza\nClinico Geral")
	require.True(t, ok)
	assert.Equal(t, "Dr. Ana Souza", name)
	assert.Equal(t, "Clinico Geral", specialty)
}

func TestParseTitlePanelTrimsBlankLines(t *testing.T) {
	name, specialty, ok := parseTitlePanel("\n  Dr. Bia  \n\n  Cardiologia  \n")
	require.True(t, ok)
	assert.Equal(t, "Dr. Bia", name)
	assert.Equal(t, "Cardiologia", specialty)
}

func TestParseTitlePanelSingleLine(t *testing.T) {
	name, specialty, ok := parseTitlePanel("Dr. Ana")
	require.True(t, ok)
	assert.Equal(t, "Dr. Ana", name)
	assert.Empty(t, specialty)
}

func TestParseTitlePanelEmpty(t *testing.T) {
	_, _, ok := parseTitlePanel("")
	assert.False(t, ok)

	_, _, ok = parseTitlePanel("  \n  ")
	assert.False(t, ok)
}

func TestMatchesSpecialty(t *testing.T) {
	assert.True(t, matchesSpecialty("Cardiologista", "cardio"))
	assert.True(t, matchesSpecialty("Cardiologia Clínica", "cardiologia"))
	assert.True(t, matchesSpecialty("Clínico Geral", "clinico geral"))
	assert.False(t, matchesSpecialty("Cardiologia", "dermatologia"))
	assert.False(t, matchesSpecialty("", "cardiologia"))
	assert.False(t, matchesSpecialty("Cardiologia", ""))
}

func TestMatchesSpecialtyIsOneDirectional(t *testing.T) {
	// The block's specialty must contain the request, never the reverse:
	// a "Geral" block does not answer a "Clinico Geral" search.
	assert.False(t, matchesSpecialty("Geral", "Clinico Geral"))
	assert.False(t, matchesSpecialty("Cardio", "cardiologia"))
}

func TestMatchPractitioner(t *testing.T) {
	assert.True(t, matchPractitioner("DR. JOSÉ ÁLVARES", "dr. jose alvares"))
	assert.True(t, matchPractitioner("  Dr. Ana  ", "Dr. Ana"))
	assert.False(t, matchPractitioner("Dr. Ana", "Dr. Ana Paula"))
}

func TestFoldForMatch(t *testing.T) {
	assert.Equal(t, "consulta medica", foldForMatch("  Consulta Médica "))
}
