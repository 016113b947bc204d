package catalog

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Price           string   `json:"price"`
	OriginalPrice   string   `json:"original_price"`
	CoverImage      string   `json:"cover_image"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description,omitempty"`
	Rating          int      `json:"rating"`
	ReviewCount     int      `json:"review_count"`
	Badge           string   `json:"badge,omitempty"`
	Author          string   `json:"author"`
	PublishDate     string   `json:"publish_date"`
	Pages           int      `json:"pages"`
	Language        string   `json:"language"`
	ISBN            string   `json:"isbn"`
	Categories      []string `json:"categories"`
	TableOfContents []string `json:"table_of_contents,omitempty"`
	Reviews         []Review `json:"reviews,omitempty"`
}

// SummaryDTO drops the detail-page fields for grid and cart listings.
func SummaryDTO(p Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID.String(),
		Title:         p.Title,
		Slug:          p.Slug.String(),
		Price:         p.Price.StringFixed(2),
		OriginalPrice: p.OriginalPrice.StringFixed(2),
		CoverImage:    p.CoverImage,
		Description:   p.Description,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		Badge:         p.Badge,
		Author:        p.Author,
		PublishDate:   p.PublishDate,
		Pages:         p.Pages,
		Language:      p.Language,
		ISBN:          p.ISBN,
		Categories:    append([]string{}, p.Categories...),
	}
}

// DetailDTO is the full detail-page payload.
func DetailDTO(p Product) ProductDTO {
	dto := SummaryDTO(p)
	dto.LongDescription = p.LongDescription
	dto.TableOfContents = append([]string{}, p.TableOfContents...)
	dto.Reviews = append([]Review{}, p.Reviews...)
	return dto
}
