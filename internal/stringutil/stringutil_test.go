package stringutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valet-org/valet/internal/stringutil"
)

func TestTruncString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{
			name:  "ShorterThanMax",
			input: "abc",
			max:   5,
			want:  "abc",
		},
		{
			name:  "ExactlyMax",
			input: "abcde",
			max:   5,
			want:  "abcde",
		},
		{
			name:  "LongerThanMax",
			input: "abcdefgh",
			max:   5,
			want:  "abcde",
		},
		{
			name:  "ZeroMax",
			input: "abc",
			max:   0,
			want:  "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, stringutil.TruncString(tc.input, tc.max))
		})
	}
}
