package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/matchmaker/internal/utils/pagination"
)

func TestNormalize(t *testing.T) {
	p := pagination.Normalize(0, 0)
	assert.Equal(t, pagination.DefaultPage, p.Page)
	assert.Equal(t, pagination.DefaultSize, p.Size)

	p = pagination.Normalize(-3, 5000)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, pagination.MaxSize, p.Size)

	p = pagination.Normalize(4, 25)
	assert.Equal(t, 4, p.Page)
	assert.Equal(t, 25, p.Size)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Normalize(1, 10).Offset())
	assert.Equal(t, 30, pagination.Normalize(4, 10).Offset())
}

func TestPages(t *testing.T) {
	p := pagination.Normalize(1, 10)
	assert.Equal(t, int64(0), p.Pages(0))
	assert.Equal(t, int64(1), p.Pages(10))
	assert.Equal(t, int64(2), p.Pages(11))
}

func TestNewPageNeverNilItems(t *testing.T) {
	page := pagination.NewPage[string](nil, 0, pagination.Normalize(1, 10))
	assert.NotNil(t, page.Items)
	assert.Len(t, page.Items, 0)
	assert.Equal(t, int64(0), page.Pages)

	page = pagination.NewPage([]string{"a"}, 21, pagination.Normalize(2, 10))
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, int64(3), page.Pages)
}
