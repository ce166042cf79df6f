package items

import (
	"context"
	"slices"

	"github.com/ananyateklu/second-brain-sub004/activity"
	"github.com/ananyateklu/second-brain-sub004/linkgraph"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// AddLink links two items in both directions. Linking an already linked pair
// is a no-op that neither calls the item service nor records activity.
func (s *Store) AddLink(ctx context.Context, sourceID, targetID string) (*model.LinkResult, error) {
	res, changed, err := s.relink(ctx, "link", sourceID, targetID, true)
	if err != nil || !changed {
		return res, err
	}
	s.record(ctx, activity.Linked(res.Source, res.Target))
	return res, nil
}

// RemoveLink removes the link in both directions. Removing a missing link is a no-op.
func (s *Store) RemoveLink(ctx context.Context, sourceID, targetID string) (*model.LinkResult, error) {
	res, changed, err := s.relink(ctx, "unlink", sourceID, targetID, false)
	if err != nil || !changed {
		return res, err
	}
	s.record(ctx, activity.Unlinked(res.Source, res.Target))
	return res, nil
}

func (s *Store) relink(ctx context.Context, op, sourceID, targetID string, link bool) (*model.LinkResult, bool, error) {
	var result model.LinkResult
	changed := false
	err := s.transact(ctx, op, []string{sourceID, targetID},
		func() error {
			all := make([]model.Item, 0, len(s.active)+len(s.archived))
			all = append(append(all, s.active...), s.archived...)
			var (
				next model.LinkResult
				err  error
			)
			if link {
				next, err = linkgraph.Link(all, sourceID, targetID)
			} else {
				next, err = linkgraph.Unlink(all, sourceID, targetID)
			}
			if err != nil {
				return err
			}
			src, _ := s.getLocked(sourceID)
			tgt, _ := s.getLocked(targetID)
			if src.HasLink(targetID) == link && tgt.HasLink(sourceID) == link {
				result = model.LinkResult{Source: src.Clone(), Target: tgt.Clone()}
				return errNoChange
			}
			changed = true
			s.setLinksLocked(sourceID, next.Source.LinkedItemIDs)
			s.setLinksLocked(targetID, next.Target.LinkedItemIDs)
			result = next
			return nil
		},
		func(ctx context.Context) (func(), error) {
			call := s.gw.RemoveLink
			if link {
				call = s.gw.AddLink
			}
			srv, err := call(ctx, sourceID, targetID)
			if err == nil && srv == nil {
				err = errEmptyResponse
			}
			if err != nil {
				return nil, err
			}
			return func() {
				result.Source = s.adoptEndpointLocked(srv.Source, result.Source)
				result.Target = s.adoptEndpointLocked(srv.Target, result.Target)
			}, nil
		})
	if err != nil {
		return nil, false, err
	}
	return &result, changed, nil
}

// adoptEndpointLocked takes the service's link set and updatedAt for one end
// of a link and re-sorts it, so the order matches the next Load.
func (s *Store) adoptEndpointLocked(server, local model.Item) model.Item {
	cur, coll := s.getLocked(local.ID)
	if coll == none {
		return local
	}
	next := cur.Clone()
	next.LinkedItemIDs = slices.Clone(linksOr(server, local))
	if !server.UpdatedAt.IsZero() {
		next.UpdatedAt = server.UpdatedAt
	}
	s.replaceLocked(coll, next)
	return next.Clone()
}

func linksOr(server, local model.Item) []string {
	if server.LinkedItemIDs == nil {
		return local.LinkedItemIDs
	}
	return server.LinkedItemIDs
}
