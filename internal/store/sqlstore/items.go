package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ananyateklu/second-brain-sub004/internal/store"
	"github.com/ananyateklu/second-brain-sub004/model"
)

type items struct{ s *Store }

const itemColumns = `id, title, content, tags, is_idea, is_pinned, is_favorite, is_archived, is_deleted,
	linked_item_ids, created_at, updated_at, archived_at, deleted_at`

type rowScanner interface{ Scan(dest ...any) error }

func scanItem(r rowScanner) (model.Item, error) {
	var (
		it                model.Item
		tags, links       string
		created, updated  int64
		archived, deleted sql.NullInt64
	)
	if err := r.Scan(&it.ID, &it.Title, &it.Content, &tags, &it.IsIdea, &it.IsPinned, &it.IsFavorite,
		&it.IsArchived, &it.IsDeleted, &links, &created, &updated, &archived, &deleted); err != nil {
		return model.Item{}, err
	}
	var err error
	if it.Tags, err = decodeList(tags); err != nil {
		return model.Item{}, fmt.Errorf("decode tags of %s: %w", it.ID, err)
	}
	if it.LinkedItemIDs, err = decodeList(links); err != nil {
		return model.Item{}, fmt.Errorf("decode links of %s: %w", it.ID, err)
	}
	it.CreatedAt, it.UpdatedAt = fromMicros(created), fromMicros(updated)
	it.ArchivedAt, it.DeletedAt = timePtr(archived), timePtr(deleted)
	return it, nil
}

func itemArgs(it *model.Item) ([]any, error) {
	tags, err := encodeList(it.Tags)
	if err != nil {
		return nil, err
	}
	links, err := encodeList(it.LinkedItemIDs)
	if err != nil {
		return nil, err
	}
	return []any{it.Title, it.Content, tags, it.IsIdea, it.IsPinned, it.IsFavorite, it.IsArchived, it.IsDeleted,
		links, toMicros(it.CreatedAt), toMicros(it.UpdatedAt), nullMicros(it.ArchivedAt), nullMicros(it.DeletedAt)}, nil
}

func (r *items) Insert(ctx context.Context, it *model.Item) error {
	args, err := itemArgs(it)
	if err != nil {
		return err
	}
	_, err = r.s.exec(ctx, `INSERT INTO items (`+itemColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		append([]any{it.ID}, args...)...)
	return err
}

func (r *items) Get(ctx context.Context, id string) (*model.Item, error) {
	it, err := scanItem(r.s.queryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFoundError("item", id)
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *items) Update(ctx context.Context, it *model.Item) error {
	args, err := itemArgs(it)
	if err != nil {
		return err
	}
	res, err := r.s.exec(ctx, `UPDATE items SET title = ?, content = ?, tags = ?, is_idea = ?, is_pinned = ?,
		is_favorite = ?, is_archived = ?, is_deleted = ?, linked_item_ids = ?, created_at = ?, updated_at = ?,
		archived_at = ?, deleted_at = ? WHERE id = ?`, append(args, it.ID)...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.NewNotFoundError("item", it.ID)
	}
	return nil
}

func (r *items) List(ctx context.Context, f store.ItemFilter) ([]model.Item, error) {
	q := `SELECT ` + itemColumns + ` FROM items`
	var args []any
	switch f.State {
	case model.StateActive:
		q += ` WHERE is_deleted = ? AND is_archived = ?`
		args = []any{false, false}
	case model.StateArchived:
		q += ` WHERE is_deleted = ? AND is_archived = ?`
		args = []any{false, true}
	case model.StateTrashed:
		q += ` WHERE is_deleted = ?`
		args = []any{true}
	}
	q += ` ORDER BY updated_at DESC, id ASC`
	return r.collect(ctx, q, args...)
}

func (r *items) LinkedTo(ctx context.Context, id string) ([]model.Item, error) {
	// The JSON text holds quoted ids, so a quoted LIKE match cannot hit a
	// prefix of a longer id. The Go filter makes the match exact.
	rows, err := r.collect(ctx, `SELECT `+itemColumns+` FROM items WHERE linked_item_ids LIKE ?`, `%"`+id+`"%`)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(rows, func(it model.Item) bool { return !it.HasLink(id) }), nil
}

func (r *items) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.s.query(ctx, `SELECT id FROM items WHERE is_deleted = ? AND deleted_at < ?`, true, toMicros(cutoff))
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, err := r.s.exec(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (r *items) collect(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := r.s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
