package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport provides detailed HTTP request/response logging for debugging client issues.
//
// It dumps every request and response the item store and activity recorder
// send, including rolled-back mutations.
//
// When to use:
//   - Set SECONDBRAIN_DEBUG=true or DEBUG=true environment variable
//   - When investigating sync failures against a local item service
//
// Security considerations:
//   - Logs full request/response bodies including sensitive data (tokens, user data)
//   - Only enable in development/staging environments
//   - Ensure log outputs are properly secured and not exposed
//
// Example usage:
//
//	export SECONDBRAIN_DEBUG=true
//	sbctl list  # logs all HTTP traffic
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested checks if HTTP debug logging should be enabled.
//
// Activation methods:
//   - SECONDBRAIN_DEBUG=true (client-specific debug flag)
//   - DEBUG=true (general debug flag, common in development workflows)
//
// Both environment variables are supported for flexibility:
//   - Use SECONDBRAIN_DEBUG for targeted client debugging
//   - Use DEBUG for broader application debugging that includes HTTP traffic
//
// Returns true if either environment variable is set to "true" (case-sensitive).
func debugLoggingRequested() bool {
	return os.Getenv("SECONDBRAIN_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
