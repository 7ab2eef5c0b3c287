package newsdesk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHashtags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a, b ,c", []string{"a", "b", "c"}},
		{"a,,b", []string{"a", "", "b"}},
		{"single", []string{"single"}},
		{"dup, dup", []string{"dup", "dup"}},
		{"Šou program", []string{"Šou program"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseHashtags(tt.in), tt.in)
	}
}

func TestJoinHashtags(t *testing.T) {
	assert.Equal(t, "a, b", JoinHashtags([]string{"a", "b"}))
	assert.Equal(t, "", JoinHashtags(nil))
}
