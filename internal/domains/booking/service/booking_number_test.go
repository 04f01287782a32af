package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingNumber(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	number := newBookingNumber(date)

	assert.Regexp(t, regexp.MustCompile(`^BK20260315-[A-F0-9]{6}$`), number)
}

func TestNewBookingNumber_Unique(t *testing.T) {
	date := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := newBookingNumber(date)
		assert.False(t, seen[number], "duplicate booking number %s", number)
		seen[number] = true
	}
}
