package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	rs, err := Parse("mon_start=8 any_stop=19 work_start=7")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Len())

	h, ok := rs.Hour(Key{Scope: "mon", Action: Start})
	assert.True(t, ok)
	assert.Equal(t, "8", h)

	h, ok = rs.Hour(Key{Scope: ScopeAny, Action: Stop})
	assert.True(t, ok)
	assert.Equal(t, "19", h)

	_, ok = rs.Hour(Key{Scope: "tue", Action: Start})
	assert.False(t, ok)
}

func TestParse_RejectsStrayWhitespace(t *testing.T) {
	for _, value := range []string{
		"any_start=5 ",
		" any_start=5",
		"any_start=5  any_stop=19",
		"any_start=5\tany_stop=19",
		"any_start=5\nany_stop=19",
	} {
		_, err := Parse(value)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, "Parse(%q)", value)
	}
}

func TestParse_RepeatedKeyKeepsLast(t *testing.T) {
	rs, err := Parse("any_start=5 any_start=6")
	require.NoError(t, err)
	h, _ := rs.Hour(Key{Scope: ScopeAny, Action: Start})
	assert.Equal(t, "6", h)
}

func TestParse_KeepsRawHourText(t *testing.T) {
	rs, err := Parse("any_start=05")
	require.NoError(t, err)
	h, _ := rs.Hour(Key{Scope: ScopeAny, Action: Start})
	assert.Equal(t, "05", h)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value string
		token string
	}{
		{"missing equals", "mon_start", "mon_start"},
		{"missing equals after valid pair", "any_start=5 mon_stop", "mon_stop"},
		{"two equals", "mon_start=8=9", "mon_start=8=9"},
		{"unknown day", "funday_start=8", "funday_start=8"},
		{"unknown action", "mon_pause=8", "mon_pause=8"},
		{"no underscore", "start=8", "start=8"},
		{"missing hour", "mon_start=", "mon_start="},
		{"empty", "", ""},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.value)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.value, pe.Value)
			assert.Equal(t, tt.token, pe.Token)
		})
	}
}

func TestParseKey(t *testing.T) {
	for _, d := range Days {
		k, err := ParseKey(string(d) + "_stop")
		require.NoError(t, err)
		assert.Equal(t, Key{Scope: d, Action: Stop}, k)
	}

	k, err := ParseKey("work_start")
	require.NoError(t, err)
	assert.Equal(t, Key{Scope: ScopeWork, Action: Start}, k)

	_, err = ParseKey("Mon_start")
	assert.Error(t, err)
}

func TestRuleSetString(t *testing.T) {
	rs, err := Parse("mon_start=8 any_stop=19 any_start=7")
	require.NoError(t, err)
	assert.Equal(t, "any_start=7 any_stop=19 mon_start=8", rs.String())
}
