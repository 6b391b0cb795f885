package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name                       string
		page, size                 int
		wantPage, wantSize, offset int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize, 0},
		{"third page", 3, 10, 3, 10, 20},
		{"size capped", 2, 1000, 2, MaxPageSize, MaxPageSize},
		{"negative page", -4, 5, 1, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, size, offset := Normalize(tc.page, tc.size)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantSize, size)
			assert.Equal(t, tc.offset, offset)
		})
	}
}
