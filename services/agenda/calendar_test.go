package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthHeaderFor(t *testing.T) {
	d := func(y int, m time.Month) string {
		return monthHeaderFor(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
	}
	assert.Equal(t, "MAR - 2025", d(2025, time.March))
	assert.Equal(t, "FEV - 2026", d(2026, time.February))
	assert.Equal(t, "DEZ - 2026", d(2026, time.December))
}
