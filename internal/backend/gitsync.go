// gitsync.go: read-only view of the backend's git-sync reconciliation.
// The sync process itself runs in the backend; this client only reads
// status and forwards manual trigger requests.
package backend

import (
	"context"
	"net/http"
)

const resourceGitSync = "gitsync"

// GetGitSyncStatus fetches the current git-sync state: pending-change
// counts per resource, branch, dirty flag and last sync time.
func (c *Client) GetGitSyncStatus(ctx context.Context) (*GitSyncStatus, error) {
	var status GitSyncStatus

	// Status reads bypass the cache so the dashboard widget polls live data.
	body, err := c.do(ctx, resourceGitSync, http.MethodGet, "/gitsync/status", nil, nil)
	if err != nil {
		return nil, err
	}
	if err := unmarshalResponse(body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// TriggerGitSync asks the backend to run a sync now. The backend applies
// its own locking and scheduling; this is a plain forward.
func (c *Client) TriggerGitSync(ctx context.Context) error {
	_, err := c.do(ctx, resourceGitSync, http.MethodPost, "/gitsync/run", nil, nil)
	return err
}
