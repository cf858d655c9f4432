package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "450 ₽", FormatPrice(450, "₽"))
	assert.Equal(t, "99,5", FormatPrice(99.5, ""))

	s := FormatPrice(1299.9, "₽")
	assert.True(t, strings.HasPrefix(s, "1"), s)
	assert.True(t, strings.HasSuffix(s, "299,9 ₽"), s)
	assert.NotContains(t, s, ".")
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Unix(0, 0)))
	assert.Equal(t, "2026-03-01 12:30:00", FormatDate(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)))
}

func TestFormatAge(t *testing.T) {
	saved := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "", FormatAge(time.Time{}, saved))
	assert.Equal(t, "только что", FormatAge(saved, saved.Add(20*time.Second)))
	assert.Contains(t, FormatAge(saved, saved.Add(2*time.Hour+5*time.Minute+10*time.Second)), "2 ч")
	assert.NotContains(t, FormatAge(saved, saved.Add(26*time.Hour+5*time.Minute)), "мин")
}

func TestGetOkJson(t *testing.T) {
	got := GetOkJSON()
	assert.Contains(t, string(got), "ok")
}
