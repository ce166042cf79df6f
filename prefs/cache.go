// Package prefs resolves user preferences against the item service, falling
// back to a local SQLite cache when the service is unreachable. Values found
// only locally are migrated forward on first read.
package prefs

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// Remote is the authoritative preference store.
type Remote interface {
	GetPreference(ctx context.Context, key string) (value string, found bool, err error)
	PutPreference(ctx context.Context, key, value string) error
}

// Local is the on-device fallback.
type Local interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Cache reads through Remote and keeps Local as a fallback.
type Cache struct {
	remote Remote
	local  Local
	log    zerolog.Logger
}

// NewCache wires a cache. local may be nil, in which case only remote is used.
func NewCache(remote Remote, local Local, log zerolog.Logger) *Cache {
	return &Cache{remote: remote, local: local, log: log}
}

// Get returns the value for key.
//
// The remote value wins. When the remote has no value but the local cache
// does, the local value is pushed to the remote and then dropped locally.
// When the remote fails, the local value is returned if present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validKey(key); err != nil {
		return "", false, err
	}
	v, found, rerr := c.remote.GetPreference(ctx, key)
	if rerr == nil && found {
		return v, true, nil
	}
	if c.local == nil {
		if rerr != nil {
			return "", false, model.NewRemoteError("get preference", rerr)
		}
		return "", false, nil
	}

	lv, lfound, lerr := c.local.Get(ctx, key)
	if lerr != nil {
		c.log.Warn().Err(lerr).Str("key", key).Msg("local preference read failed")
	}
	if rerr != nil {
		if lfound {
			c.log.Debug().Err(rerr).Str("key", key).Msg("preference served from local cache")
			return lv, true, nil
		}
		return "", false, model.NewRemoteError("get preference", rerr)
	}
	if !lfound {
		return "", false, nil
	}

	c.migrate(ctx, key, lv)
	return lv, true, nil
}

func (c *Cache) migrate(ctx context.Context, key, value string) {
	if err := c.remote.PutPreference(ctx, key, value); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("preference migration deferred")
		return
	}
	if err := c.local.Delete(ctx, key); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("failed to drop migrated preference")
		return
	}
	c.log.Info().Str("key", key).Msg("preference migrated to item service")
}

// Set stores value under key. If the remote write fails the value is kept
// locally and migrated on a later Get; the remote error is still returned.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	rerr := c.remote.PutPreference(ctx, key, value)
	if rerr == nil {
		if c.local != nil {
			if err := c.local.Delete(ctx, key); err != nil {
				c.log.Debug().Err(err).Str("key", key).Msg("stale local preference not removed")
			}
		}
		return nil
	}
	if c.local != nil {
		if err := c.local.Put(ctx, key, value); err != nil {
			c.log.Error().Err(err).Str("key", key).Msg("local preference write failed")
		}
	}
	return model.NewRemoteError("set preference", rerr)
}

func validKey(key string) error {
	return model.ValidateID(key, "key")
}
