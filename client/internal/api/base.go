// Package api holds one function per item service endpoint. Each call is a
// single HTTP round trip with no retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"github.com/ananyateklu/second-brain-sub004/internal/errors"
)

// HTTPClient is the subset of *http.Client used here.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// call performs one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response. Any status not in ok becomes a
// ClassifiedError carrying the domain meaning of the status.
func call(ctx context.Context, hc HTTPClient, op, method, url string, body, out any, ok ...int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return errors.NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !slices.Contains(ok, resp.StatusCode) {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return errors.NewHTTPError(resp.StatusCode, string(msg), op)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
