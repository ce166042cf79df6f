// Package api exposes the item service over HTTP.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ananyateklu/second-brain-sub004/internal/api/recovery"
	"github.com/ananyateklu/second-brain-sub004/internal/auth"
	"github.com/ananyateklu/second-brain-sub004/internal/service"
)

// NewRouter wires every route. healthy reports cached service health.
func NewRouter(svc *service.Items, authz auth.Authorizer, healthy HealthFunc) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)
	root.Use(instrument)
	root.Use(auth.Middleware(authz, "/api/health", "/metrics"))

	h := &Handler{svc: svc}

	// Items
	root.HandleFunc("/api/items", h.CreateItem).Methods(http.MethodPost)
	root.HandleFunc("/api/items", h.ListItems).Methods(http.MethodGet)
	root.HandleFunc("/api/items/{id}", h.GetItem).Methods(http.MethodGet)
	root.HandleFunc("/api/items/{id}", h.UpdateItem).Methods(http.MethodPatch)
	root.HandleFunc("/api/items/{id}", h.DeleteItem).Methods(http.MethodDelete)
	root.HandleFunc("/api/items/{id}/archive", h.ArchiveItem).Methods(http.MethodPost)
	root.HandleFunc("/api/items/{id}/unarchive", h.UnarchiveItem).Methods(http.MethodPost)
	root.HandleFunc("/api/items/{id}/restore", h.RestoreItem).Methods(http.MethodPost)

	// Links
	root.HandleFunc("/api/items/{id}/links/{targetId}", h.AddLink).Methods(http.MethodPost)
	root.HandleFunc("/api/items/{id}/links/{targetId}", h.RemoveLink).Methods(http.MethodDelete)

	// Trash, activity, preferences
	root.HandleFunc("/api/trash", h.ListTrash).Methods(http.MethodGet)
	root.HandleFunc("/api/activities", h.RecordActivity).Methods(http.MethodPost)
	root.HandleFunc("/api/activities", h.ListActivities).Methods(http.MethodGet)
	root.HandleFunc("/api/preferences/{key}", h.GetPreference).Methods(http.MethodGet)
	root.HandleFunc("/api/preferences/{key}", h.PutPreference).Methods(http.MethodPut)

	// Health and metrics
	root.HandleFunc("/api/health", NewHealthHandler(healthy).CheckHealth).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return root
}
