package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"abc": 1,
		"0":   1,
		"-3":  1,
		"1":   1,
		" 4 ": 4,
		"12":  12,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseNumber(raw), "raw %q", raw)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 4, TotalPages(19, 6))
}

func TestResolve_ClampsToLastPage(t *testing.T) {
	number, offset := Resolve(7, 10, 25)
	assert.Equal(t, 3, number)
	assert.Equal(t, 20, offset)

	number, offset = Resolve(2, 10, 25)
	assert.Equal(t, 2, number)
	assert.Equal(t, 10, offset)
}

func TestResolve_EmptyResultHasOnePage(t *testing.T) {
	number, offset := Resolve(5, 6, 0)
	assert.Equal(t, 1, number)
	assert.Equal(t, 0, offset)
}

func TestNew_Metadata(t *testing.T) {
	p := New([]string{"a", "b"}, 2, 2, 5)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)

	empty := New[string](nil, 1, 10, 0)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrevious)
}

func TestMap(t *testing.T) {
	p := New([]int{1, 2}, 1, 2, 3)
	out := Map(p, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, out.Items)
	assert.Equal(t, p.TotalPages, out.TotalPages)
	assert.True(t, out.HasNext)
}

func TestMap_EmptyPage(t *testing.T) {
	out := Map(New[int](nil, 1, 10, 0), func(i int) int { return i * 2 })
	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
	assert.Equal(t, 1, out.TotalPages)
}
