package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acgeners/amor-saude/models"
)

func bookingRequest(practitioner, clock string) models.AppointmentRequest {
	return models.AppointmentRequest{
		RequesterID:  "u1",
		Specialty:    "cardiologia",
		Date:         "10/03/2026",
		Time:         clock,
		PatientName:  "Maria Silva",
		DocumentID:   "123.456.789-00",
		Practitioner: practitioner,
	}
}

func TestFindPractitionerBlock(t *testing.T) {
	blocks := []models.ScheduleBlock{
		{Practitioner: "Dr. Ana", Specialty: "Clinico Geral", Times: []string{"09:00"}},
		{Practitioner: "Dr. Bia", Specialty: "Cardiologia", Times: []string{"10:00", "10:30"}},
	}

	idx, err := findPractitionerBlock(blocks, bookingRequest("Dr. Bia", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestFindPractitionerBlockTimeGone(t *testing.T) {
	blocks := []models.ScheduleBlock{
		{Practitioner: "Dr. Bia", Specialty: "Cardiologia", Times: []string{"10:00"}},
	}

	// The offered time vanished from the open list; the booking must stop
	// here with the structured error, no form interaction.
	_, err := findPractitionerBlock(blocks, bookingRequest("Dr. Bia", "10:30"))
	require.Error(t, err)
	ae := AsAgendaError(err)
	assert.Equal(t, CodeSlotTaken, ae.Code)
	assert.Contains(t, ae.Message, "não está mais disponível")
}

func TestFindPractitionerBlockUnknownPractitioner(t *testing.T) {
	blocks := []models.ScheduleBlock{
		{Practitioner: "Dr. Bia", Specialty: "Cardiologia", Times: []string{"10:00"}},
	}

	_, err := findPractitionerBlock(blocks, bookingRequest("Dr. Caio", "10:00"))
	require.Error(t, err)
	assert.Equal(t, CodeSlotTaken, AsAgendaError(err).Code)
}

func TestFindPractitionerBlockWrongSpecialty(t *testing.T) {
	// Same name, different specialty column: not the requested slot.
	blocks := []models.ScheduleBlock{
		{Practitioner: "Dr. Bia", Specialty: "Dermatologia", Times: []string{"10:00"}},
	}

	_, err := findPractitionerBlock(blocks, bookingRequest("Dr. Bia", "10:00"))
	require.Error(t, err)
	assert.Equal(t, CodeSlotTaken, AsAgendaError(err).Code)
}
