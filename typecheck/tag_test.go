package typecheck

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type celsius float64

func TestTagOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  Tag
	}{
		{"nil", nil, Nil},
		{"bool", true, Bool},
		{"int", 1, Int},
		{"int32", int32(1), Int},
		{"int64", int64(1), Int64},
		{"uint8", uint8(1), Uint},
		{"float64", 1.5, Float},
		{"string", "x", String},
		{"bytes", []byte("x"), Bytes},
		{"duration", time.Second, Duration},
		{"time", time.Time{}, Time},
		{"error", errors.New("boom"), Error}, //nolint:err113
		{"string slice", []string{"a"}, Slice},
		{"any slice", []any{1}, Slice},
		{"array", [2]int{}, Slice},
		{"map", map[string]int{}, Map},
		{"struct", struct{}{}, Other},
		{"named float", celsius(1), Other},
		{"pointer", new(int), Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, TagOf(tt.value))
		})
	}
}

func TestTagMatches(t *testing.T) {
	t.Parallel()

	assert.True(t, Int.Matches(Int))
	assert.False(t, Int.Matches(Int64))
	assert.True(t, Any.Matches(String))
	assert.True(t, Any.Matches(Nil))
	assert.False(t, String.Matches(Any))
}

func TestTagString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "int", Int.String())
	assert.Equal(t, "duration", Duration.String())
	assert.Equal(t, "other", Tag(99).String())
	assert.Equal(t, "int, string", join([]Tag{Int, String}))
}
