package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"posrecon-backend/internal/service"
)

type ManagerHandler struct {
	managerSvc service.ManagerService
	authSvc    service.AuthService
}

func NewManagerHandler(managerSvc service.ManagerService, authSvc service.AuthService) *ManagerHandler {
	return &ManagerHandler{managerSvc: managerSvc, authSvc: authSvc}
}

type registerManagerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateManagerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *ManagerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	token, m, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "manager": m})
}

func (h *ManagerHandler) List(w http.ResponseWriter, r *http.Request) {
	managers, err := h.managerSvc.ListManagers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, managers)
}

func (h *ManagerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerManagerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	m, err := h.managerSvc.RegisterManager(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *ManagerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req updateManagerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	m, err := h.managerSvc.UpdateManager(r.Context(), id, req.Name, req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ManagerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.managerSvc.DeleteManager(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func RegisterManagerRoutes(router *mux.Router, managerSvc service.ManagerService, authSvc service.AuthService) {
	h := NewManagerHandler(managerSvc, authSvc)
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/manager", h.List).Methods("GET")
	router.HandleFunc("/manager/register", h.Register).Methods("POST")
	router.HandleFunc("/manager/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/manager/{id}", h.Delete).Methods("DELETE")
}
