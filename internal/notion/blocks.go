package notion

import (
	"context"
	"fmt"
)

const (
	v1BlockChildren = "/v1/blocks/%s/children"
)

// GetBlockChildren fetches the ordered child blocks of a page.
func (c *Client) GetBlockChildren(ctx context.Context, blockID string) ([]*Block, error) {
	var resp *BlockChildrenResponse

	res, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&resp).
		Get(fmt.Sprintf(v1BlockChildren, blockID))

	if err := handleAPIError(res, err, "get block children"); err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, nil
	}
	return resp.Results, nil
}

// AppendBlockChildren appends blocks after the existing children of a page.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []*Block) (resp *BlockChildrenResponse, err error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(&AppendBlockChildrenRequest{Children: children}).
		SetSuccessResult(&resp).
		Patch(fmt.Sprintf(v1BlockChildren, blockID))

	if err := handleAPIError(res, err, "append block children"); err != nil {
		return nil, err
	}

	return resp, nil
}
