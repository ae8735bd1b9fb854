package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultTopic  ResultType = "topic"
	ResultReview ResultType = "review"
)

// Result is a single search hit returned to the caller.
type Result struct {
	Type         ResultType `json:"type"`
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Snippet      string     `json:"snippet"`
	RestaurantID string     `json:"restaurantId,omitempty"`
	UserID       int64      `json:"userId,omitempty"`
}

// Query describes a search request.
type Query struct {
	Text               string
	FilterType         ResultType // empty = all types
	FilterRestaurantID string
	Limit              int
	Offset             int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// TopicRecord is the data we index for a discussion topic.
type TopicRecord struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	UserID int64  `json:"userId"`
}

// ReviewRecord is the data we index for a restaurant review.
type ReviewRecord struct {
	ID           string `json:"id"`
	Review       string `json:"review"`
	Grade        int    `json:"grade"`
	RestaurantID string `json:"restaurantId"`
	UserID       int64  `json:"userId"`
}
