package upstream

import (
	"context"
	"net/http"
)

// ListFilter narrows and orders the company-side listing endpoints.
type ListFilter struct {
	Page     int
	PageSize int
	Status   string
	Search   string
	SortBy   string
}

func (f ListFilter) query() map[string]string {
	return map[string]string{
		"status": f.Status,
		"search": f.Search,
		"sortBy": f.SortBy,
	}
}

// ListJobCampaigns fetches the company's campaigns.
func (c *Client) ListJobCampaigns(ctx context.Context, filter ListFilter) ([]JobCampaign, error) {
	var campaigns []JobCampaign
	q := listQuery(filter.Page, filter.PageSize, filter.query())
	if err := c.do(ctx, http.MethodGet, "/api/campaigns/jobs", q, nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListCandidates fetches the company's candidate pipeline.
func (c *Client) ListCandidates(ctx context.Context, filter ListFilter) ([]Candidate, error) {
	var candidates []Candidate
	q := listQuery(filter.Page, filter.PageSize, filter.query())
	if err := c.do(ctx, http.MethodGet, "/api/candidates", q, nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// ListQuestions fetches question bank entries, optionally by category.
func (c *Client) ListQuestions(ctx context.Context, category string) ([]Question, error) {
	var questions []Question
	q := listQuery(0, 0, map[string]string{"category": category})
	if err := c.do(ctx, http.MethodGet, "/api/content/questions", q, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
