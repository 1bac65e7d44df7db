package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acgeners/amor-saude/models"
)

var testLoc = time.FixedZone("BRT", -3*3600)

func gridFixture() []models.ScheduleBlock {
	return []models.ScheduleBlock{
		{Practitioner: "Dr. Ana", Specialty: "Clinico Geral", Times: []string{"09:00", "09:30"}},
		{Practitioner: "Dr. Bia", Specialty: "Cardiologia", Times: []string{"10:00"}, Room: "Sala 2"},
	}
}

func TestFlattenBlocksFiltersBySpecialty(t *testing.T) {
	tuples := flattenBlocks(gridFixture(), "cardiologia")
	require.Len(t, tuples, 1)
	assert.Equal(t, "Dr. Bia", tuples[0].Practitioner)
	assert.Equal(t, "10:00", tuples[0].Time)
	assert.Equal(t, "Sala 2", tuples[0].Room)
}

func TestFlattenBlocksNoMatch(t *testing.T) {
	tuples := flattenBlocks(gridFixture(), "dermatologia")
	assert.Empty(t, tuples)
}

func TestFlattenBlocksRejectsBroaderSpecialty(t *testing.T) {
	blocks := []models.ScheduleBlock{
		{Practitioner: "Dr. Ana", Specialty: "Geral", Times: []string{"09:00"}},
	}
	assert.Empty(t, flattenBlocks(blocks, "Clinico Geral"))
}

func TestFlattenBlocksEmptySpecialtyMatchesAll(t *testing.T) {
	tuples := flattenBlocks(gridFixture(), "")
	assert.Len(t, tuples, 3)
}

func TestSelectEarliestPicksEarliestInstant(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, testLoc)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, testLoc)

	tuples := flattenBlocks(gridFixture(), "")
	best, instant, ok := selectEarliest(tuples, date, now, 0, testLoc, nil)
	require.True(t, ok)
	assert.Equal(t, "Dr. Ana", best.Practitioner)
	assert.Equal(t, "09:00", best.Time)
	assert.Equal(t, 9, instant.Hour())
}

func TestSelectEarliestSameDayLeadTime(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, testLoc)
	now := time.Date(2026, 3, 10, 9, 10, 0, 0, testLoc)

	tuples := flattenBlocks(gridFixture(), "")

	// 30 minutes of lead from 09:10 excludes 09:00 and 09:30.
	best, _, ok := selectEarliest(tuples, date, now, 30*time.Minute, testLoc, nil)
	require.True(t, ok)
	assert.Equal(t, "10:00", best.Time)

	// A threshold past the last slot leaves nothing on the day.
	_, _, ok = selectEarliest(tuples, date, now, 2*time.Hour, testLoc, nil)
	assert.False(t, ok)
}

func TestSelectEarliestLeadTimeIgnoredOnFutureDays(t *testing.T) {
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, testLoc)
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, testLoc)

	tuples := flattenBlocks(gridFixture(), "")
	best, _, ok := selectEarliest(tuples, date, now, 12*time.Hour, testLoc, nil)
	require.True(t, ok)
	assert.Equal(t, "09:00", best.Time)
}

func TestSelectEarliestSkipsAlreadyOffered(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, testLoc)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, testLoc)

	tuples := flattenBlocks(gridFixture(), "")
	seen := func(tu slotTuple) bool { return tu.Time == "09:00" }

	best, _, ok := selectEarliest(tuples, date, now, 0, testLoc, seen)
	require.True(t, ok)
	assert.Equal(t, "09:30", best.Time)
}

func TestSelectEarliestStableOnTies(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, testLoc)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, testLoc)

	tuples := []slotTuple{
		{Practitioner: "Dr. Ana", Time: "10:00"},
		{Practitioner: "Dr. Bia", Time: "10:00"},
	}
	best, _, ok := selectEarliest(tuples, date, now, 0, testLoc, nil)
	require.True(t, ok)
	assert.Equal(t, "Dr. Ana", best.Practitioner)
}

func TestSelectEarliestSkipsMalformedTimes(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, testLoc)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, testLoc)

	tuples := []slotTuple{
		{Practitioner: "Dr. Ana", Time: "almoço"},
		{Practitioner: "Dr. Bia", Time: "11:00"},
	}
	best, _, ok := selectEarliest(tuples, date, now, 0, testLoc, nil)
	require.True(t, ok)
	assert.Equal(t, "11:00", best.Time)
}
