package notion

import "time"

// QueryDatabaseRequest is the body of the database query endpoint.
type QueryDatabaseRequest struct {
	Filter      *TimestampFilter `json:"filter,omitempty"`
	StartCursor string           `json:"start_cursor,omitempty"`
	PageSize    int              `json:"page_size,omitempty"`
}

// TimestampFilter filters pages on a page-level timestamp.
type TimestampFilter struct {
	Timestamp      string         `json:"timestamp"`
	LastEditedTime *DateCondition `json:"last_edited_time,omitempty"`
}

type DateCondition struct {
	OnOrAfter string `json:"on_or_after,omitempty"`
}

// EditedOnOrAfter matches pages edited at or after t.
func EditedOnOrAfter(t time.Time) *TimestampFilter {
	return &TimestampFilter{
		Timestamp:      "last_edited_time",
		LastEditedTime: &DateCondition{OnOrAfter: t.Format(time.RFC3339)},
	}
}

type QueryDatabaseResponse struct {
	Object     string  `json:"object,omitempty"`
	Results    []*Page `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor,omitempty"`
}
