package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bookshop-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/bookshop-backend/pkg/errors"
)

func TestBooksList(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, "", http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	books := decodeData[[]catalog.ProductDTO](t, rec)
	require.Len(t, books, 3)
	assert.Equal(t, "book-1", books[0].ID)
	assert.Equal(t, "27.00", books[0].Price)
	assert.Empty(t, books[0].Reviews, "grid payload omits reviews")
}

func TestBookDetail(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, "", http.MethodGet, "/books/Overcoming-Procrastination", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	book := decodeData[catalog.ProductDTO](t, rec)
	assert.Equal(t, "book-3", book.ID)
	assert.Len(t, book.Reviews, 3)
	assert.NotEmpty(t, book.LongDescription)
}

func TestBookDetailNotFound(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/books/no-such-book", "/books/not%20a%20slug"} {
		rec := h.do(t, "", http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, string(pkgerrors.CodeNotFound), decodeError(t, rec).Code)
	}
}
