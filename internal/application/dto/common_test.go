package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		in, want PageRequest
	}{
		{PageRequest{}, PageRequest{Limit: 20}},
		{PageRequest{Limit: 500, Offset: 40}, PageRequest{Limit: MaxPageLimit, Offset: 40}},
		{PageRequest{Limit: 5, Offset: -3}, PageRequest{Limit: 5}},
	}
	for _, tc := range cases {
		got := tc.in
		got.Normalize()
		assert.Equal(t, tc.want, got)
	}
}
