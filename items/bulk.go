package items

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ananyateklu/second-brain-sub004/activity"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// BulkFailure is an ID a bulk operation could not process.
type BulkFailure struct {
	ID  string
	Err error
}

// BulkResult reports every ID of a bulk operation. Partial failure is not an
// error: successes stay applied and failures are listed.
type BulkResult struct {
	Restored []model.Item
	Failed   []BulkFailure
	Notes    int
	Ideas    int
}

// RestoreMultiple unarchives every ID concurrently and waits for all of them
// to settle. One aggregated restore_multiple entry is recorded for any
// non-empty batch, including a batch of one.
func (s *Store) RestoreMultiple(ctx context.Context, ids []string) BulkResult {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return BulkResult{}
	}

	type outcome struct {
		item *model.Item
		err  error
	}
	outcomes := make([]outcome, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			it, err := s.unarchive(ctx, id)
			outcomes[i] = outcome{item: it, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var res BulkResult
	var failed []activity.BulkFailure
	for i, o := range outcomes {
		if o.err != nil {
			res.Failed = append(res.Failed, BulkFailure{ID: ids[i], Err: o.err})
			failed = append(failed, activity.BulkFailure{ID: ids[i], Error: o.err.Error()})
			continue
		}
		res.Restored = append(res.Restored, *o.item)
		if o.item.IsIdea {
			res.Ideas++
		} else {
			res.Notes++
		}
	}

	s.log.Debug().Int("restored", len(res.Restored)).Int("failed", len(res.Failed)).Msg("bulk restore settled")
	s.record(ctx, activity.RestoredMultiple(res.Notes, res.Ideas, failed))
	return res
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
