package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 5))
	assert.Equal(t, 1, TotalPages(1, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
	assert.Equal(t, 2, TotalPages(6, 5))
	assert.Equal(t, 3, TotalPages(21, 10))
}

func TestStrict(t *testing.T) {
	offset, err := Strict(Request{Page: 1, Size: 10})
	assert.NoError(t, err)
	assert.Equal(t, 0, offset)

	offset, err = Strict(Request{Page: 3, Size: 5})
	assert.NoError(t, err)
	assert.Equal(t, 10, offset)

	_, err = Strict(Request{Page: 0, Size: 10})
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = Strict(Request{Page: -4, Size: 10})
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestClamped(t *testing.T) {
	// in range: passes through
	page, offset := Clamped(Request{Page: 2, Size: 5}, 4)
	assert.Equal(t, 2, page)
	assert.Equal(t, 5, offset)

	// below range: snaps to the first page
	page, offset = Clamped(Request{Page: 0, Size: 5}, 4)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, offset)

	// above range: snaps to the last page
	page, offset = Clamped(Request{Page: 99, Size: 5}, 4)
	assert.Equal(t, 4, page)
	assert.Equal(t, 15, offset)

	// empty listing: page 1, offset 0 regardless of the requested page
	page, offset = Clamped(Request{Page: 7, Size: 5}, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, offset)

	page, offset = Clamped(Request{Page: -3, Size: 5}, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, offset)
}
