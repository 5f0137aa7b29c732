package domain

// CollectionStats summarizes a user's collection for the statistics
// endpoint.
type CollectionStats struct {
	TotalBooks       int            `json:"total_books"`
	BooksByStatus    map[string]int `json:"books_by_status"`
	CurrentlyReading int            `json:"currently_reading"`
	AverageRating    float64        `json:"average_rating"` // 0 when nothing is rated
	RatedBooks       int            `json:"rated_books"`
}
