package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostPagePages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"empty", 0, 0},
		{"partial", 2, 1},
		{"exact", 6, 2},
		{"remainder", 7, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PostPage{Page: 1, PerPage: 3, Total: tt.total}
			assert.Equal(t, tt.want, p.Pages())
		})
	}
}

func TestPostPageNavigation(t *testing.T) {
	first := &PostPage{Page: 1, PerPage: 3, Total: 7}
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())
	assert.Equal(t, 0, first.PrevNum())
	assert.Equal(t, 2, first.NextNum())

	last := &PostPage{Page: 3, PerPage: 3, Total: 7}
	assert.True(t, last.HasPrev())
	assert.False(t, last.HasNext())
	assert.Equal(t, 2, last.PrevNum())
	assert.Equal(t, 0, last.NextNum())
}

func TestPostPageIterPages(t *testing.T) {
	empty := &PostPage{Page: 1, PerPage: 3}
	assert.Empty(t, empty.IterPages())
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrev())
	assert.Equal(t, []int{1, 2, 3}, (&PostPage{Page: 2, PerPage: 3, Total: 9}).IterPages())

	// 10 pages
	assert.Equal(t, []int{1, 2, 3, 4, 5, 0, 9, 10}, (&PostPage{Page: 1, PerPage: 3, Total: 30}).IterPages())
	assert.Equal(t, []int{1, 2, 0, 4, 5, 6, 7, 8, 9, 10}, (&PostPage{Page: 6, PerPage: 3, Total: 30}).IterPages())
}

func TestPostOwnedBy(t *testing.T) {
	p := &Post{UserID: 7}
	assert.True(t, p.OwnedBy(7))
	assert.False(t, p.OwnedBy(8))
	assert.False(t, p.OwnedBy(0))

	var missing *Post
	assert.False(t, missing.OwnedBy(7))
}
