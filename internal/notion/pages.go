package notion

import (
	"context"
	"fmt"
)

const (
	v1Pages = "/v1/pages"
	v1Page  = "/v1/pages/%s"
)

// CreatePage creates a database row with the given properties and optional
// content blocks.
func (c *Client) CreatePage(ctx context.Context, create *CreatePageRequest) (resp *Page, err error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(create).
		SetSuccessResult(&resp).
		Post(v1Pages)

	if err := handleAPIError(res, err, "create page"); err != nil {
		return nil, err
	}

	return resp, nil
}

// RetrievePage fetches a page's current properties and timestamps.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (resp *Page, err error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&resp).
		Get(fmt.Sprintf(v1Page, pageID))

	if err := handleAPIError(res, err, "retrieve page"); err != nil {
		return nil, err
	}

	return resp, nil
}

// UpdatePageCheckbox sets a checkbox property on a page.
func (c *Client) UpdatePageCheckbox(ctx context.Context, pageID, property string, checked bool) (resp *Page, err error) {
	update := &UpdatePageRequest{
		Properties: map[string]PropertyValue{
			property: NewCheckboxProperty(checked),
		},
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(update).
		SetSuccessResult(&resp).
		Patch(fmt.Sprintf(v1Page, pageID))

	if err := handleAPIError(res, err, "update page"); err != nil {
		return nil, err
	}

	return resp, nil
}
