// Package devmode holds the credentials shared by the CLI and the local item service.
package devmode

// APIKey is accepted by the item service when no API key is configured outside
// production. Never use it against a deployed service.
const APIKey = "SECONDBRAIN_LOCAL_DEV_KEY"

// IsDevKey reports whether key is the shared development key.
func IsDevKey(key string) bool { return key == APIKey }
