package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ananyateklu/second-brain-sub004/internal/api/respond"
	"github.com/ananyateklu/second-brain-sub004/internal/api/validate"
	"github.com/ananyateklu/second-brain-sub004/internal/service"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// Handler serves item, trash, activity and preference routes.
type Handler struct {
	svc *service.Items
}

const maxBody = 1 << 20

type createItemRequest struct {
	Title      string   `json:"title" validate:"notblank,max=256"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags" validate:"omitempty,dive,max=64"`
	IsIdea     bool     `json:"isIdea"`
	IsPinned   bool     `json:"isPinned"`
	IsFavorite bool     `json:"isFavorite"`
}

type recordActivityRequest struct {
	ID          string           `json:"id" validate:"omitempty,max=64"`
	ActionType  model.ActionType `json:"actionType" validate:"required,oneof=create edit update delete archive restore link unlink restore_multiple"`
	ItemType    model.ItemType   `json:"itemType" validate:"omitempty,oneof=note idea"`
	ItemID      string           `json:"itemId" validate:"max=64"`
	ItemTitle   string           `json:"itemTitle"`
	Description string           `json:"description" validate:"max=1024"`
	Metadata    map[string]any   `json:"metadata"`
}

type putPreferenceRequest struct {
	Value string `json:"value" validate:"max=4096"`
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		return model.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decode(r, &req); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	it, err := h.svc.Create(r.Context(), model.Draft(req))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, it)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	archived := false
	if v := r.URL.Query().Get("archived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.WriteBadRequest(w, "archived must be true or false")
			return
		}
		archived = b
	}
	items, err := h.svc.List(r.Context(), archived)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, model.ListItemsResponse{Items: items, Count: len(items)})
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	writeItem(w, it, err)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var p model.Patch
	if err := decode(r, &p); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	it, err := h.svc.Update(r.Context(), mux.Vars(r)["id"], p)
	writeItem(w, it, err)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Delete(r.Context(), mux.Vars(r)["id"])
	writeItem(w, it, err)
}

func (h *Handler) ArchiveItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Archive(r.Context(), mux.Vars(r)["id"])
	writeItem(w, it, err)
}

func (h *Handler) UnarchiveItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Unarchive(r.Context(), mux.Vars(r)["id"])
	writeItem(w, it, err)
}

func (h *Handler) RestoreItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Restore(r.Context(), mux.Vars(r)["id"])
	writeItem(w, it, err)
}

func (h *Handler) AddLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := h.svc.AddLink(r.Context(), vars["id"], vars["targetId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := h.svc.RemoveLink(r.Context(), vars["id"], vars["targetId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) ListTrash(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Trash(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, model.ListTrashResponse{
		Items: items, Count: len(items), RetentionDays: h.svc.RetentionDays(),
	})
}

func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var e model.ActivityEntry
	if err := decode(r, &e); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	req := recordActivityRequest{
		ID: e.ID, ActionType: e.ActionType, ItemType: e.ItemType, ItemID: e.ItemID,
		ItemTitle: e.ItemTitle, Description: e.Description, Metadata: e.Metadata,
	}
	if err := validate.Struct(req); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	saved, err := h.svc.RecordActivity(r.Context(), e)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusAccepted, saved)
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			err = validate.Var("limit", n, "min=1,max=500")
		} else {
			err = model.NewValidationError("limit", "must be an integer")
		}
		if err != nil {
			respond.WriteDomainError(w, err)
			return
		}
		limit = n
	}
	entries, err := h.svc.ListActivities(r.Context(), q.Get("itemId"), limit)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"activities": entries, "count": len(entries)})
}

func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPreference(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) PutPreference(w http.ResponseWriter, r *http.Request) {
	var req putPreferenceRequest
	if err := decode(r, &req); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	p, err := h.svc.PutPreference(r.Context(), mux.Vars(r)["key"], req.Value)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

func writeItem(w http.ResponseWriter, it *model.Item, err error) {
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, it)
}
