package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ananyateklu/second-brain-sub004/model"
)

func itemURL(baseURL, id string, suffix ...string) string {
	u := fmt.Sprintf("%s/api/items/%s", baseURL, url.PathEscape(id))
	for _, s := range suffix {
		u += "/" + s
	}
	return u
}

// CreateItem posts a new item. The service assigns the id and timestamps.
func CreateItem(ctx context.Context, hc HTTPClient, baseURL string, d model.Draft) (*model.Item, error) {
	if err := model.ValidateDraft(d); err != nil {
		return nil, err
	}
	var it model.Item
	if err := call(ctx, hc, "create item", http.MethodPost, baseURL+"/api/items", d, &it, http.StatusCreated); err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItem fetches one active or archived item.
func GetItem(ctx context.Context, hc HTTPClient, baseURL, id string) (*model.Item, error) {
	if err := model.ValidateID(id, "id"); err != nil {
		return nil, err
	}
	var it model.Item
	if err := call(ctx, hc, "get item", http.MethodGet, itemURL(baseURL, id), nil, &it, http.StatusOK); err != nil {
		return nil, err
	}
	return &it, nil
}

// UpdateItem patches an item. The service rejects a patch that touches the
// archive flag.
func UpdateItem(ctx context.Context, hc HTTPClient, baseURL, id string, p model.Patch) (*model.Item, error) {
	if err := model.ValidateID(id, "id"); err != nil {
		return nil, err
	}
	var it model.Item
	if err := call(ctx, hc, "update item", http.MethodPatch, itemURL(baseURL, id), p, &it, http.StatusOK); err != nil {
		return nil, err
	}
	return &it, nil
}

// DeleteItem soft-deletes an item and returns the deleted row. A 204 from an
// older backend yields a nil item.
func DeleteItem(ctx context.Context, hc HTTPClient, baseURL, id string) (*model.Item, error) {
	if err := model.ValidateID(id, "id"); err != nil {
		return nil, err
	}
	var it model.Item
	if err := call(ctx, hc, "delete item", http.MethodDelete, itemURL(baseURL, id), nil, &it, http.StatusOK, http.StatusNoContent); err != nil {
		return nil, err
	}
	if it.ID == "" {
		return nil, nil
	}
	return &it, nil
}

// ArchiveItem, UnarchiveItem and RestoreItem share one shape.
func ArchiveItem(ctx context.Context, hc HTTPClient, baseURL, id string) (*model.Item, error) {
	return transition(ctx, hc, baseURL, id, "archive")
}

func UnarchiveItem(ctx context.Context, hc HTTPClient, baseURL, id string) (*model.Item, error) {
	return transition(ctx, hc, baseURL, id, "unarchive")
}

func RestoreItem(ctx context.Context, hc HTTPClient, baseURL, id string) (*model.Item, error) {
	return transition(ctx, hc, baseURL, id, "restore")
}

func transition(ctx context.Context, hc HTTPClient, baseURL, id, action string) (*model.Item, error) {
	if err := model.ValidateID(id, "id"); err != nil {
		return nil, err
	}
	var it model.Item
	if err := call(ctx, hc, action+" item", http.MethodPost, itemURL(baseURL, id, action), nil, &it, http.StatusOK); err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItems returns the active (archived=false) or archived items.
func ListItems(ctx context.Context, hc HTTPClient, baseURL string, archived bool) ([]model.Item, error) {
	var lr model.ListItemsResponse
	u := baseURL + "/api/items?archived=" + strconv.FormatBool(archived)
	if err := call(ctx, hc, "list items", http.MethodGet, u, nil, &lr, http.StatusOK); err != nil {
		return nil, err
	}
	return lr.Items, nil
}
