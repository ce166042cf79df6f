package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// RecordActivity appends one audit entry. The service answers 202 Accepted.
func RecordActivity(ctx context.Context, hc HTTPClient, baseURL string, e model.ActivityEntry) error {
	if e.ActionType == "" {
		return model.NewValidationError("actionType", "is required")
	}
	return call(ctx, hc, "record activity", http.MethodPost, baseURL+"/api/activities", e, nil, http.StatusAccepted, http.StatusCreated)
}

// ListActivities returns the newest entries first, optionally for one item.
func ListActivities(ctx context.Context, hc HTTPClient, baseURL, itemID string, limit int) ([]model.ActivityEntry, error) {
	q := url.Values{}
	if itemID != "" {
		q.Set("itemId", itemID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u := baseURL + "/api/activities"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var out struct {
		Activities []model.ActivityEntry `json:"activities"`
	}
	if err := call(ctx, hc, "list activities", http.MethodGet, u, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Activities, nil
}
