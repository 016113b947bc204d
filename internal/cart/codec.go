package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bookshop-backend/internal/catalog"
)

// FormatVersion is written into every snapshot.
const FormatVersion = 1

// ErrCorruptSnapshot marks persisted data that cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

type snapshotRecord struct {
	Version int          `json:"version"`
	Lines   []lineRecord `json:"lines"`
}

type lineRecord struct {
	Product  productRecord `json:"product"`
	Quantity int           `json:"quantity"`
}

// productRecord keeps the camelCase keys the storefront has always written,
// so snapshots saved by older clients still decode.
type productRecord struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   decimal.Decimal  `json:"originalPrice"`
	CoverImage      string           `json:"coverImage"`
	Description     string           `json:"description"`
	LongDescription string           `json:"longDescription,omitempty"`
	Rating          int              `json:"rating"`
	ReviewCount     int              `json:"reviewCount"`
	Badge           string           `json:"badge,omitempty"`
	Author          string           `json:"author"`
	PublishDate     string           `json:"publishDate"`
	Pages           int              `json:"pages"`
	Language        string           `json:"language"`
	ISBN            string           `json:"isbn"`
	Categories      []string         `json:"categories,omitempty"`
	TableOfContents []string         `json:"tableOfContents,omitempty"`
	Reviews         []catalog.Review `json:"reviews,omitempty"`
}

// Encode serializes lines in the versioned format.
func Encode(lines []Line) ([]byte, error) {
	rec := snapshotRecord{Version: FormatVersion, Lines: make([]lineRecord, 0, len(lines))}
	for _, l := range lines {
		rec.Lines = append(rec.Lines, lineRecord{Product: toRecord(l.Product), Quantity: l.Quantity})
	}
	return json.Marshal(rec)
}

// Decode parses a snapshot. It accepts the versioned object and the legacy
// bare array. Lines with an invalid product id, a negative price or a quantity
// below one are dropped and repeated product ids are merged into the first line.
func Decode(data []byte) ([]Line, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCorruptSnapshot)
	}

	var records []lineRecord
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
	case '{':
		var rec snapshotRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		if rec.Version != FormatVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, rec.Version)
		}
		records = rec.Lines
	default:
		return nil, fmt.Errorf("%w: unexpected payload", ErrCorruptSnapshot)
	}

	return normalize(records), nil
}

func normalize(records []lineRecord) []Line {
	lines := make([]Line, 0, len(records))
	for _, rec := range records {
		p := fromRecord(rec.Product)
		if !storable(p) || rec.Quantity < 1 {
			continue
		}
		if idx := indexOf(lines, p.ID); idx >= 0 {
			lines[idx].Quantity += rec.Quantity
			continue
		}
		lines = append(lines, Line{Product: p, Quantity: rec.Quantity})
	}
	return lines
}

func toRecord(p catalog.Product) productRecord {
	return productRecord{
		ID:              p.ID.String(),
		Title:           p.Title,
		Slug:            p.Slug.String(),
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		CoverImage:      p.CoverImage,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		Badge:           p.Badge,
		Author:          p.Author,
		PublishDate:     p.PublishDate,
		Pages:           p.Pages,
		Language:        p.Language,
		ISBN:            p.ISBN,
		Categories:      p.Categories,
		TableOfContents: p.TableOfContents,
		Reviews:         p.Reviews,
	}
}

func fromRecord(r productRecord) catalog.Product {
	return catalog.Product{
		ID:              catalog.ProductID(r.ID),
		Title:           r.Title,
		Slug:            catalog.Slug(r.Slug),
		Price:           r.Price,
		OriginalPrice:   r.OriginalPrice,
		CoverImage:      r.CoverImage,
		Description:     r.Description,
		LongDescription: r.LongDescription,
		Rating:          r.Rating,
		ReviewCount:     r.ReviewCount,
		Badge:           r.Badge,
		Author:          r.Author,
		PublishDate:     r.PublishDate,
		Pages:           r.Pages,
		Language:        r.Language,
		ISBN:            r.ISBN,
		Categories:      r.Categories,
		TableOfContents: r.TableOfContents,
		Reviews:         r.Reviews,
	}
}
