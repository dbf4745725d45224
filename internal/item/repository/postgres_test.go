package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"central-lost-found/backend/internal/item/domain"
)

func TestFilterClause(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		filter    domain.Filter
		wantWhere string
		wantArgs  []any
	}{
		{"empty", domain.Filter{Limit: 50}, "", nil},
		{"region only", domain.Filter{Voivodeship: "Pomorskie"}, " WHERE voivodeship = $1", []any{"Pomorskie"}},
		{
			"all constraints",
			domain.Filter{Voivodeship: "Mazowieckie", DominantColor: "czarny", DateFrom: &from, DateTo: &to},
			" WHERE voivodeship = $1 AND dominant_color = $2 AND date_found >= $3 AND date_found <= $4",
			[]any{"Mazowieckie", "czarny", from, to},
		},
		{"date range only", domain.Filter{DateTo: &to}, " WHERE date_found <= $1", []any{to}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			where, args := filterClause(tc.filter)
			assert.Equal(t, tc.wantWhere, where)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plecak", escapeLike("plecak"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}

func TestNullStringHelpers(t *testing.T) {
	assert.False(t, nullString("").Valid)
	assert.True(t, nullString("x").Valid)
	assert.False(t, ptrToNullString(nil).Valid)

	empty := ""
	ns := ptrToNullString(&empty)
	assert.True(t, ns.Valid, "explicit empty pointer is stored as empty text, not NULL")
	assert.Nil(t, nullStringToPtr(ptrToNullString(nil)))
}
