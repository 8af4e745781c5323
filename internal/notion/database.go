package notion

import (
	"context"
	"fmt"
)

const (
	v1DatabaseQuery = "/v1/databases/%s/query"
)

// QueryDatabase runs a single query request and returns one result page.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, query *QueryDatabaseRequest) (resp *QueryDatabaseResponse, err error) {
	if databaseID == "" {
		return nil, ErrNoDatabase
	}
	if query == nil {
		query = &QueryDatabaseRequest{}
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(query).
		SetSuccessResult(&resp).
		Post(fmt.Sprintf(v1DatabaseQuery, databaseID))

	if err := handleAPIError(res, err, "query database"); err != nil {
		return nil, err
	}

	return resp, nil
}

// QueryDatabaseAll follows cursor pagination until exhausted and returns
// every matching page. The full result set is materialized before the
// caller processes any of it.
func (c *Client) QueryDatabaseAll(ctx context.Context, databaseID string, filter *TimestampFilter) ([]*Page, error) {
	var (
		pages  []*Page
		cursor string
	)
	for {
		resp, err := c.QueryDatabase(ctx, databaseID, &QueryDatabaseRequest{
			Filter:      filter,
			StartCursor: cursor,
		})
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}
	return pages, nil
}
