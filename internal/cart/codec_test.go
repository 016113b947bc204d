package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bookshop-backend/internal/catalog"
)

func TestEncodeWritesVersionedFormat(t *testing.T) {
	t.Parallel()
	data, err := Encode([]Line{{Product: product("book-1", "27.00"), Quantity: 2}})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, FormatVersion, raw["version"])
	lines := raw["lines"].([]any)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.EqualValues(t, 2, line["quantity"])
	assert.Equal(t, "book-1", line["product"].(map[string]any)["id"])

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"lines":[]}`, string(empty))
}

func TestDecodeLegacyArray(t *testing.T) {
	t.Parallel()
	legacy := `[
		{"book":null,"product":{"id":"book-1","title":"Study Abroad Guide for Africans","slug":"study-abroad-guide-for-africans","price":27,"originalPrice":34.99,"coverImage":"/smart.jpg"},"quantity":2},
		{"product":{"id":"book-3","slug":"overcoming-procrastination","price":20},"quantity":1}
	]`
	lines, err := Decode([]byte(legacy))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, catalog.ProductID("book-1"), lines[0].Product.ID)
	assert.Equal(t, "34.99", lines[0].Product.OriginalPrice.StringFixed(2))
	assert.Equal(t, "/smart.jpg", lines[0].Product.CoverImage)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, catalog.ProductID("book-3"), lines[1].Product.ID)
}

func TestDecodeNormalizesLines(t *testing.T) {
	t.Parallel()
	payload := `{"version":1,"lines":[
		{"product":{"id":"a","price":"1"},"quantity":1},
		{"product":{"id":"","price":"1"},"quantity":1},
		{"product":{"id":"b","price":"2"},"quantity":0},
		{"product":{"id":"c","price":"-3"},"quantity":1},
		{"product":{"id":"d","price":"4"},"quantity":2},
		{"product":{"id":"a","price":"1"},"quantity":4}
	]}`
	lines, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, catalog.ProductID("a"), lines[0].Product.ID)
	assert.Equal(t, 5, lines[0].Quantity, "duplicates merge into the first line")
	assert.Equal(t, catalog.ProductID("d"), lines[1].Product.ID)
}

func TestDecodeRejectsCorruptPayloads(t *testing.T) {
	t.Parallel()
	for _, payload := range []string{
		"",
		"   ",
		"null",
		"42",
		`"cart"`,
		"{broken",
		`[{"product":{"id":"a"},"quantity":"two"}]`,
		`{"lines":[]}`,
		`{"version":2,"lines":[]}`,
	} {
		_, err := Decode([]byte(payload))
		assert.ErrorIs(t, err, ErrCorruptSnapshot, "payload %q", payload)
	}
}

func TestEncodeDecodeKeepsPayload(t *testing.T) {
	t.Parallel()
	c, err := catalog.Default()
	require.NoError(t, err)
	book, ok := c.GetProductByID("book-2")
	require.True(t, ok)

	data, err := Encode([]Line{{Product: book, Quantity: 1}})
	require.NoError(t, err)
	lines, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	got := lines[0].Product
	assert.Equal(t, book.Title, got.Title)
	assert.Equal(t, book.Slug, got.Slug)
	assert.Equal(t, book.Categories, got.Categories)
	assert.Equal(t, book.Reviews, got.Reviews)
	assert.True(t, book.Price.Equal(got.Price))
}
