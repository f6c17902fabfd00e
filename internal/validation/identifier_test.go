package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidID(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"canonical v4", "9f1b6c2a-3d4e-4f5a-8b6c-7d8e9f0a1b2c", true},
		{"uppercase hex", "9F1B6C2A-3D4E-4F5A-8B6C-7D8E9F0A1B2C", true},
		{"generated", NewID(), true},
		{"empty", "", false},
		{"random text", "not-an-identifier", false},
		{"version 1", "9f1b6c2a-3d4e-1f5a-8b6c-7d8e9f0a1b2c", false},
		{"bad variant", "9f1b6c2a-3d4e-4f5a-0b6c-7d8e9f0a1b2c", false},
		{"braced form", "{9f1b6c2a-3d4e-4f5a-8b6c-7d8e9f0a1b2c}", false},
		{"urn form", "urn:uuid:9f1b6c2a-3d4e-4f5a-8b6c-7d8e9f0a1b2c", false},
		{"bare hex", "9f1b6c2a3d4e4f5a8b6c7d8e9f0a1b2c", false},
		{"truncated", "9f1b6c2a-3d4e-4f5a-8b6c-7d8e9f0a1b2", false},
		{"trailing garbage", "9f1b6c2a-3d4e-4f5a-8b6c-7d8e9f0a1b2cX", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsValidID(tc.input), "input: %q", tc.input)
		})
	}
}

func TestNewIDIsCanonical(t *testing.T) {
	req := require.New(t)

	id := NewID()
	req.Len(id, 36)
	req.Equal(4, strings.Count(id, "-"))
	req.True(IsValidID(id))
}
