package items

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// fakeGateway mimics the item service in memory.
type fakeGateway struct {
	mu      sync.Mutex
	items   map[string]model.Item
	seq     int
	now     time.Time
	failOps map[string]error // op -> error
	failIDs map[string]error // id -> error for any op
	calls   map[string]int
	gate    chan struct{} // when set, archive waits on it
	noLinks bool          // omit linkedItemIds from update, archive and restore responses
}

func newFakeGateway(seed ...model.Item) *fakeGateway {
	g := &fakeGateway{
		items:   map[string]model.Item{},
		now:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		failOps: map[string]error{},
		failIDs: map[string]error{},
		calls:   map[string]int{},
	}
	for _, it := range seed {
		g.items[it.ID] = it.Clone()
	}
	return g
}

func (g *fakeGateway) begin(op, id string) (func(), error) {
	g.mu.Lock()
	g.calls[op]++
	g.now = g.now.Add(time.Minute)
	if err := g.failOps[op]; err != nil {
		return g.mu.Unlock, err
	}
	if err := g.failIDs[id]; err != nil {
		return g.mu.Unlock, err
	}
	return g.mu.Unlock, nil
}

func (g *fakeGateway) callCount(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) get(id string) (model.Item, error) {
	it, ok := g.items[id]
	if !ok || it.IsDeleted {
		return model.Item{}, model.NewNotFoundError("item", id)
	}
	return it, nil
}

func (g *fakeGateway) CreateItem(_ context.Context, d model.Draft) (*model.Item, error) {
	done, err := g.begin("create", "")
	defer done()
	if err != nil {
		return nil, err
	}
	g.seq++
	it := model.Item{
		ID: fmt.Sprintf("item-%d", g.seq), Title: d.Title, Content: d.Content, Tags: d.Tags,
		IsIdea: d.IsIdea, IsPinned: d.IsPinned, IsFavorite: d.IsFavorite,
		LinkedItemIDs: []string{}, CreatedAt: g.now, UpdatedAt: g.now,
	}
	g.items[it.ID] = it
	out := it.Clone()
	return &out, nil
}

func (g *fakeGateway) UpdateItem(_ context.Context, id string, p model.Patch) (*model.Item, error) {
	done, err := g.begin("update", id)
	defer done()
	if err != nil {
		return nil, err
	}
	it, err := g.get(id)
	if err != nil {
		return nil, err
	}
	it = p.Apply(it)
	it.UpdatedAt = g.now
	g.items[id] = it
	return g.response(it), nil
}

func (g *fakeGateway) DeleteItem(_ context.Context, id string) (*model.Item, error) {
	done, err := g.begin("delete", id)
	defer done()
	if err != nil {
		return nil, err
	}
	it, err := g.get(id)
	if err != nil {
		return nil, err
	}
	now := g.now
	it.IsDeleted, it.IsArchived, it.DeletedAt, it.ArchivedAt = true, false, &now, nil
	g.items[id] = it
	out := it.Clone()
	return &out, nil
}

// response copies it for the caller, honouring noLinks.
func (g *fakeGateway) response(it model.Item) *model.Item {
	out := it.Clone()
	if g.noLinks {
		out.LinkedItemIDs = nil
	}
	return &out
}

func (g *fakeGateway) ArchiveItem(_ context.Context, id string) (*model.Item, error) {
	if g.gate != nil {
		<-g.gate
	}
	return g.setArchived("archive", id, true)
}

func (g *fakeGateway) UnarchiveItem(_ context.Context, id string) (*model.Item, error) {
	return g.setArchived("unarchive", id, false)
}

func (g *fakeGateway) setArchived(op, id string, archived bool) (*model.Item, error) {
	done, err := g.begin(op, id)
	defer done()
	if err != nil {
		return nil, err
	}
	it, err := g.get(id)
	if err != nil {
		return nil, err
	}
	it.IsArchived = archived
	it.ArchivedAt = nil
	if archived {
		now := g.now
		it.ArchivedAt = &now
	}
	g.items[id] = it
	return g.response(it), nil
}

func (g *fakeGateway) RestoreItem(_ context.Context, id string) (*model.Item, error) {
	done, err := g.begin("restore", id)
	defer done()
	if err != nil {
		return nil, err
	}
	it, ok := g.items[id]
	if !ok || !it.IsDeleted {
		return nil, model.NewNotFoundError("trash", id)
	}
	it.IsDeleted, it.DeletedAt = false, nil
	it.UpdatedAt = g.now
	g.items[id] = it
	return g.response(it), nil
}

func (g *fakeGateway) AddLink(_ context.Context, a, b string) (*model.LinkResult, error) {
	return g.relink("link", a, b, true)
}

func (g *fakeGateway) RemoveLink(_ context.Context, a, b string) (*model.LinkResult, error) {
	return g.relink("unlink", a, b, false)
}

func (g *fakeGateway) relink(op, a, b string, link bool) (*model.LinkResult, error) {
	done, err := g.begin(op, a)
	defer done()
	if err != nil {
		return nil, err
	}
	src, err := g.get(a)
	if err != nil {
		return nil, err
	}
	tgt, err := g.get(b)
	if err != nil {
		return nil, err
	}
	src.LinkedItemIDs = slices.DeleteFunc(slices.Clone(src.LinkedItemIDs), func(x string) bool { return x == b })
	tgt.LinkedItemIDs = slices.DeleteFunc(slices.Clone(tgt.LinkedItemIDs), func(x string) bool { return x == a })
	if link {
		src.LinkedItemIDs = append(src.LinkedItemIDs, b)
		tgt.LinkedItemIDs = append(tgt.LinkedItemIDs, a)
	}
	src.UpdatedAt, tgt.UpdatedAt = g.now, g.now
	g.items[a], g.items[b] = src, tgt
	return &model.LinkResult{Source: src.Clone(), Target: tgt.Clone()}, nil
}

func (g *fakeGateway) ListItems(_ context.Context, archived bool) ([]model.Item, error) {
	done, err := g.begin("list", "")
	defer done()
	if err != nil {
		return nil, err
	}
	var out []model.Item
	for _, it := range g.items {
		if !it.IsDeleted && it.IsArchived == archived {
			out = append(out, it.Clone())
		}
	}
	return out, nil
}

// memRecorder captures activity synchronously.
type memRecorder struct {
	mu      sync.Mutex
	entries []model.ActivityEntry
}

func (r *memRecorder) Record(_ context.Context, e model.ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *memRecorder) actions() []model.ActionType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ActionType, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.ActionType)
	}
	return out
}

func (r *memRecorder) last() model.ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[len(r.entries)-1]
}
