package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// AddLink links source and target symmetrically. The response carries both
// updated items.
func AddLink(ctx context.Context, hc HTTPClient, baseURL, sourceID, targetID string) (*model.LinkResult, error) {
	return link(ctx, hc, baseURL, http.MethodPost, "add link", sourceID, targetID)
}

// RemoveLink removes the link in both directions.
func RemoveLink(ctx context.Context, hc HTTPClient, baseURL, sourceID, targetID string) (*model.LinkResult, error) {
	return link(ctx, hc, baseURL, http.MethodDelete, "remove link", sourceID, targetID)
}

func link(ctx context.Context, hc HTTPClient, baseURL, method, op, sourceID, targetID string) (*model.LinkResult, error) {
	if err := model.ValidateID(sourceID, "sourceId"); err != nil {
		return nil, err
	}
	if err := model.ValidateID(targetID, "targetId"); err != nil {
		return nil, err
	}
	if sourceID == targetID {
		return nil, model.NewValidationError("targetId", "an item cannot link to itself")
	}
	var res model.LinkResult
	u := itemURL(baseURL, sourceID, "links", url.PathEscape(targetID))
	if err := call(ctx, hc, op, method, u, nil, &res, http.StatusOK); err != nil {
		return nil, err
	}
	return &res, nil
}
