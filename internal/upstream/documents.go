package upstream

import (
	"context"
	"net/http"
)

// ListDocuments fetches the caller's documents, optionally filtered by
// category.
func (c *Client) ListDocuments(ctx context.Context, category DocumentCategory) ([]Document, error) {
	var docs []Document
	q := listQuery(0, 0, map[string]string{"category": string(category)})
	if err := c.do(ctx, http.MethodGet, "/api/candidates/documents", q, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateDocument applies a partial update to one document.
func (c *Client) UpdateDocument(ctx context.Context, id string, update DocumentUpdate) (*Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodPatch, "/api/candidates/documents/"+id, nil, update, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes one document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/candidates/documents/"+id, nil, nil, nil)
}
