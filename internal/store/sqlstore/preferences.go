package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ananyateklu/second-brain-sub004/model"
)

type preferences struct{ s *Store }

func (r *preferences) Get(ctx context.Context, key string) (*model.Preference, error) {
	var (
		p  = model.Preference{Key: key}
		ts int64
	)
	err := r.s.queryRow(ctx, `SELECT value, updated_at FROM preferences WHERE pref_key = ?`, key).Scan(&p.Value, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFoundError("preference", key)
	}
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = fromMicros(ts)
	return &p, nil
}

func (r *preferences) Put(ctx context.Context, p *model.Preference) error {
	_, err := r.s.exec(ctx, `INSERT INTO preferences (pref_key, value, updated_at) VALUES (?,?,?)
		ON CONFLICT (pref_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		p.Key, p.Value, toMicros(p.UpdatedAt))
	return err
}
