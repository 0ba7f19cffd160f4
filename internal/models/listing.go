package models

// ListingCategory — вид услуги маркетплейса.
type ListingCategory string

const (
	ListingMoving   ListingCategory = "moving"
	ListingCleaning ListingCategory = "cleaning"
	ListingAircon   ListingCategory = "aircon"
)

// Company — карточка исполнителя в объявлении.
type Company struct {
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	AvailableHours string `json:"available_hours"`
	Description    string `json:"description"`
}

// PriceItem — позиция прайса объявления.
type PriceItem struct {
	Label       string `json:"label"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

// Listing — объявление маркетплейса услуг (переезд/уборка/кондиционеры).
type Listing struct {
	Slug      string          `json:"slug"`
	Category  ListingCategory `json:"category"`
	Company   Company         `json:"company"`
	Prices    []PriceItem     `json:"prices"`
	Stats     Stats           `json:"stats"`
	CreatedAt int64           `json:"created_at"` // Unix UTC
	UpdatedAt int64           `json:"updated_at"` // Unix UTC
}

type ListListingsRequest struct {
	Category  ListingCategory `json:"category"`
	PageSize  int32           `json:"page_size"`
	PageToken string          `json:"page_token"`
}

type ListListingsResponse struct {
	Listings      []Listing `json:"listings"`
	NextPageToken string    `json:"next_page_token"`
}

type CreateListingRequest struct {
	Category ListingCategory `json:"category"`
	Company  Company         `json:"company"`
	Prices   []PriceItem     `json:"prices"`
}

// Inquiry — заявка по объявлению.
type Inquiry struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Contact   string `json:"contact"`
	CreatedAt int64  `json:"created_at"` // Unix UTC
}

type CreateInquiryRequest struct {
	Message string `json:"message"`
	Contact string `json:"contact"`
}

// Review — отзыв по объявлению.
type Review struct {
	ID         string `json:"id"`
	AuthorName string `json:"author_name"`
	Rating     int32  `json:"rating"` // 1..5
	Content    string `json:"content"`
	CreatedAt  int64  `json:"created_at"` // Unix UTC
}

type CreateReviewRequest struct {
	Rating  int32  `json:"rating"`
	Content string `json:"content"`
}

type ListReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}
