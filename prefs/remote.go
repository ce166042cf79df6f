package prefs

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ananyateklu/second-brain-sub004/internal/errors"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// HTTPRemote talks to /api/preferences on the item service.
type HTTPRemote struct {
	client *resty.Client
}

// NewHTTPRemote builds a remote against baseURL authenticated with apiKey.
func NewHTTPRemote(baseURL, apiKey string, timeout time.Duration) *HTTPRemote {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey).
		SetTimeout(timeout)
	return &HTTPRemote{client: c}
}

func (r *HTTPRemote) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var pref model.Preference
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&pref).
		Get("/api/preferences/" + url.PathEscape(key))
	if err != nil {
		return "", false, errors.NewNetworkError("get preference", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return pref.Value, true, nil
	case http.StatusNotFound:
		return "", false, nil
	default:
		return "", false, errors.NewHTTPError(resp.StatusCode(), resp.String(), "get preference")
	}
}

func (r *HTTPRemote) PutPreference(ctx context.Context, key, value string) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"value": value}).
		Put("/api/preferences/" + url.PathEscape(key))
	if err != nil {
		return errors.NewNetworkError("put preference", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return errors.NewHTTPError(resp.StatusCode(), resp.String(), "put preference")
	}
	return nil
}
