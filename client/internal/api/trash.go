package api

import (
	"context"
	"net/http"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// ListTrash returns soft-deleted items as trash snapshots.
func ListTrash(ctx context.Context, hc HTTPClient, baseURL string) (*model.ListTrashResponse, error) {
	var lr model.ListTrashResponse
	if err := call(ctx, hc, "list trash", http.MethodGet, baseURL+"/api/trash", nil, &lr, http.StatusOK); err != nil {
		return nil, err
	}
	return &lr, nil
}
