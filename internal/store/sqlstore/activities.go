package sqlstore

import (
	"context"
	"encoding/json"

	"github.com/ananyateklu/second-brain-sub004/model"
)

type activities struct{ s *Store }

func (r *activities) Append(ctx context.Context, e *model.ActivityEntry) error {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = r.s.exec(ctx, `INSERT INTO activities (id, action_type, item_type, item_id, item_title, description, metadata, ts)
		VALUES (?,?,?,?,?,?,?,?)`,
		e.ID, string(e.ActionType), string(e.ItemType), e.ItemID, e.ItemTitle, e.Description, string(b), toMicros(e.Timestamp))
	return err
}

func (r *activities) List(ctx context.Context, itemID string, limit int) ([]model.ActivityEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT id, action_type, item_type, item_id, item_title, description, metadata, ts FROM activities`
	var args []any
	if itemID != "" {
		q += ` WHERE item_id = ?`
		args = append(args, itemID)
	}
	q += ` ORDER BY ts DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []model.ActivityEntry{}
	for rows.Next() {
		var (
			e             model.ActivityEntry
			action, itype string
			meta          string
			ts            int64
		)
		if err := rows.Scan(&e.ID, &action, &itype, &e.ItemID, &e.ItemTitle, &e.Description, &meta, &ts); err != nil {
			return nil, err
		}
		e.ActionType, e.ItemType, e.Timestamp = model.ActionType(action), model.ItemType(itype), fromMicros(ts)
		if meta != "" && meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
