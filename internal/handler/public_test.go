package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuehub/venue-reservation/internal/pagination"
)

// fakeListing serves pages out of a fixed item count and records how
// often it is queried.
type fakeListing struct {
	total int
	calls int
	err   error
}

func (f *fakeListing) list(offset, limit int) ([]int, int64, error) {
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	var items []int
	for i := offset; i < f.total && i < offset+limit; i++ {
		items = append(items, i)
	}
	return items, int64(f.total), nil
}

func TestClampedListInRange(t *testing.T) {
	src := &fakeListing{total: 12}

	items, page, total, err := clampedList(pagination.Request{Page: 2, Size: 5}, src.list)
	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, []int{5, 6, 7, 8, 9}, items)
	// an in-range page resolves from the first fetch alone
	assert.Equal(t, 1, src.calls)
}

func TestClampedListOutOfRange(t *testing.T) {
	src := &fakeListing{total: 12}

	items, page, total, err := clampedList(pagination.Request{Page: 40, Size: 5}, src.list)
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, []int{10, 11}, items)
	// the out-of-range page costs one extra fetch at the snapped offset
	assert.Equal(t, 2, src.calls)
}

func TestClampedListBelowRange(t *testing.T) {
	src := &fakeListing{total: 12}

	items, page, _, err := clampedList(pagination.Request{Page: 0, Size: 5}, src.list)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, items)
	assert.Equal(t, 1, src.calls)
}

func TestClampedListEmpty(t *testing.T) {
	src := &fakeListing{total: 0}

	items, page, total, err := clampedList(pagination.Request{Page: 7, Size: 5}, src.list)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, items)
	// page 7 over an empty set snaps to page 1, offset 0
	assert.Equal(t, 2, src.calls)
}

func TestClampedListError(t *testing.T) {
	boom := errors.New("db down")
	src := &fakeListing{err: boom}

	_, _, _, err := clampedList(pagination.Request{Page: 1, Size: 5}, src.list)
	assert.ErrorIs(t, err, boom)
}
