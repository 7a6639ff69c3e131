package backend

import "context"

const resourceAnalytics = "analytics"

// GetAnalyticsSummary fetches the analytics rollup for the admin dashboard.
func (c *Client) GetAnalyticsSummary(ctx context.Context) (*AnalyticsSummary, error) {
	var summary AnalyticsSummary
	if err := c.get(ctx, resourceAnalytics, "/analytics/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
