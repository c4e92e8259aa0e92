package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/service"
)

type TenantHandler struct {
	tenantSvc service.TenantService
}

func NewTenantHandler(tenantSvc service.TenantService) *TenantHandler {
	return &TenantHandler{tenantSvc: tenantSvc}
}

type createTenantRequest struct {
	Name   string   `json:"name"`
	PosIDs []string `json:"posIds"`
}

type addPosIDRequest struct {
	PosID string `json:"posId"`
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenantSvc.ListTenants(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenants)
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	t, err := h.tenantSvc.CreateTenant(r.Context(), req.Name, req.PosIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": t.ID, "name": t.Name, "posIds": t.PosIDs})
}

func (h *TenantHandler) AddPosID(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathInt32(r, "tenantId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req addPosIDRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.tenantSvc.AddPosID(r.Context(), tenantID, req.PosID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"tenantId": tenantID, "posId": strings.TrimSpace(req.PosID)})
}

func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathInt32(r, "tenantId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.tenantSvc.DeleteTenant(r.Context(), tenantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *TenantHandler) DeletePosID(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathInt32(r, "tenantId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.tenantSvc.DeletePosID(r.Context(), tenantID, mux.Vars(r)["posId"]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "POS ID not found for tenant")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ForPOS returns the tenant a POS ID belongs to.
func (h *TenantHandler) ForPOS(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenantSvc.FindByPosID(r.Context(), mux.Vars(r)["posId"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func RegisterTenantRoutes(router *mux.Router, tenantSvc service.TenantService) {
	h := NewTenantHandler(tenantSvc)
	router.HandleFunc("/api/tenants", h.List).Methods("GET")
	router.HandleFunc("/api/tenants", h.Create).Methods("POST")
	router.HandleFunc("/api/tenants/{tenantId}/posids", h.AddPosID).Methods("POST")
	router.HandleFunc("/api/tenants/{tenantId}", h.Delete).Methods("DELETE")
	router.HandleFunc("/api/tenants/{tenantId}/posids/{posId}", h.DeletePosID).Methods("DELETE")
	router.HandleFunc("/api/pos/{posId}/tenant", h.ForPOS).Methods("GET")
}
