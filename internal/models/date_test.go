package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_DaysUntil(t *testing.T) {
	today := NewDate(2024, 2, 28)

	assert.Equal(t, -1, today.DaysUntil(today.AddDays(-1)))
	assert.Equal(t, 0, today.DaysUntil(today))
	assert.Equal(t, 2, today.DaysUntil(NewDate(2024, 3, 1)), "leap day counted")
	assert.Equal(t, 8, today.DaysUntil(today.AddDays(8)))
}

func TestDate_DaysUntil_FarDates(t *testing.T) {
	today := NewDate(2024, 5, 20)

	assert.Equal(t, 174080, today.DaysUntil(NewDate(2500, 12, 31)))
	assert.Equal(t, -174080, NewDate(2500, 12, 31).DaysUntil(today))
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2024, 5, 11, 1, 0, 0, 0, loc)

	assert.Equal(t, "2024-05-11", DateOf(ts).String())
	assert.Equal(t, "2024-05", DateOf(ts).YearMonth())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-10")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, 5, 10), d)

	_, err = ParseDate("10/05/2024")
	require.ErrorIs(t, err, common.ErrInvalidDate)
}

func TestValidateMonth(t *testing.T) {
	require.NoError(t, ValidateMonth("2024-05"))
	for _, bad := range []string{"", "2024-5", "2024-00", "2024-13", "24-05", "2024-05-01"} {
		require.ErrorIs(t, ValidateMonth(bad), common.ErrInvalidMonth, bad)
	}
}

func TestParseCategoryAndUnit(t *testing.T) {
	c, ok := ParseCategory("  dairy & eggs ")
	require.True(t, ok)
	assert.Equal(t, CategoryDairyEggs, c)

	_, ok = ParseCategory("Toys")
	assert.False(t, ok)

	u, ok := ParseUnit("KG")
	require.True(t, ok)
	assert.Equal(t, UnitKg, u)

	assert.Len(t, Categories, 12)
	assert.Len(t, Units, 7)
}
