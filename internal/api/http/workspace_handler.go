package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/recon"
	"posrecon-backend/internal/service"
)

// WorkspaceHandler serves the agent-facing routes under /api/pos/{posId}.
type WorkspaceHandler struct {
	reconSvc       service.ReconciliationService
	maxUploadBytes int64
}

func NewWorkspaceHandler(reconSvc service.ReconciliationService, maxUploadBytes int64) *WorkspaceHandler {
	return &WorkspaceHandler{reconSvc: reconSvc, maxUploadBytes: maxUploadBytes}
}

type agentRequest struct {
	Name string `json:"name" validate:"required"`
}

type startDraftRequest struct {
	Method string `json:"method" validate:"required"`
}

type addRowsRequest struct {
	Count int `json:"count" validate:"required"`
}

func posID(r *http.Request) string {
	return mux.Vars(r)["posId"]
}

func rowIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		return 0, domain.NewValidationError("index", "must be a number")
	}
	return i, nil
}

func submitted(w http.ResponseWriter, id int64) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Report saved successfully", "reportId": id})
}

func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, err := h.reconSvc.GetWorkspace(r.Context(), posID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (h *WorkspaceHandler) SetAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	ws, err := h.reconSvc.SetAgentName(r.Context(), posID(r), req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (h *WorkspaceHandler) StartDraft(w http.ResponseWriter, r *http.Request) {
	var req startDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.reconSvc.StartDraft(r.Context(), posID(r), domain.PaymentMethod(req.Method))
	h.draftResult(w, r, d, err)
}

func (h *WorkspaceHandler) SetDraftOptions(w http.ResponseWriter, r *http.Request) {
	var req service.DraftOptions
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.reconSvc.SetDraftOptions(r.Context(), posID(r), req)
	h.draftResult(w, r, d, err)
}

func (h *WorkspaceHandler) AddRows(w http.ResponseWriter, r *http.Request) {
	var req addRowsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.reconSvc.AddRows(r.Context(), posID(r), req.Count)
	h.draftResult(w, r, d, err)
}

func (h *WorkspaceHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	idx, err := rowIndex(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch recon.RowPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.reconSvc.UpdateRow(r.Context(), posID(r), idx, patch)
	h.draftResult(w, r, d, err)
}

func (h *WorkspaceHandler) RemoveRow(w http.ResponseWriter, r *http.Request) {
	idx, err := rowIndex(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.reconSvc.RemoveRow(r.Context(), posID(r), idx)
	h.draftResult(w, r, d, err)
}

func (h *WorkspaceHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.reconSvc.ClearDraft(r.Context(), posID(r))
	h.draftResult(w, r, d, err)
}

func (h *WorkspaceHandler) ImportDraft(w http.ResponseWriter, r *http.Request) {
	file, name, err := h.uploadedFile(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer file.Close()

	d, err := h.reconSvc.ImportRows(r.Context(), posID(r), name, file)
	h.draftResult(w, r, d, err)
}

func (h *WorkspaceHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	id, err := h.reconSvc.SubmitDraft(r.Context(), posID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	submitted(w, id)
}

func (h *WorkspaceHandler) draftResult(w http.ResponseWriter, r *http.Request, d *domain.Draft, err error) {
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *WorkspaceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.reconSvc.GetSummary(r.Context(), posID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *WorkspaceHandler) SubmitSummary(w http.ResponseWriter, r *http.Request) {
	id, err := h.reconSvc.SubmitSummary(r.Context(), posID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	submitted(w, id)
}

func (h *WorkspaceHandler) ClearBatches(w http.ResponseWriter, r *http.Request) {
	if err := h.reconSvc.ClearBatches(r.Context(), posID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

func (h *WorkspaceHandler) MatchView(w http.ResponseWriter, r *http.Request) {
	v, err := h.reconSvc.GetMatchView(r.Context(), posID(r))
	h.viewResult(w, r, v, err)
}

func (h *WorkspaceHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var in recon.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	tx, err := h.reconSvc.AddTransaction(r.Context(), posID(r), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *WorkspaceHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch recon.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	tx, err := h.reconSvc.UpdateTransaction(r.Context(), posID(r), mux.Vars(r)["txId"], patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *WorkspaceHandler) RemoveTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.reconSvc.RemoveTransaction(r.Context(), posID(r), mux.Vars(r)["txId"]); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *WorkspaceHandler) ImportLedger(w http.ResponseWriter, r *http.Request) {
	file, name, err := h.uploadedFile(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer file.Close()

	n, err := h.reconSvc.ImportLedger(r.Context(), posID(r), name, file)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (h *WorkspaceHandler) ToggleMode(w http.ResponseWriter, r *http.Request) {
	v, err := h.reconSvc.ToggleReconcileMode(r.Context(), posID(r))
	h.viewResult(w, r, v, err)
}

func (h *WorkspaceHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	v, err := h.reconSvc.ToggleSelection(r.Context(), posID(r), mux.Vars(r)["txId"])
	h.viewResult(w, r, v, err)
}

func (h *WorkspaceHandler) Commit(w http.ResponseWriter, r *http.Request) {
	session, err := h.reconSvc.Commit(r.Context(), posID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *WorkspaceHandler) viewResult(w http.ResponseWriter, r *http.Request, v domain.MatchView, err error) {
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *WorkspaceHandler) SeedCashbook(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reconSvc.SeedCashbook(r.Context(), posID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *WorkspaceHandler) UpdateCashbookRow(w http.ResponseWriter, r *http.Request) {
	var patch recon.CashbookPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	row, err := h.reconSvc.UpdateCashbookRow(r.Context(), posID(r), mux.Vars(r)["date"], patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *WorkspaceHandler) SubmitCashbook(w http.ResponseWriter, r *http.Request) {
	id, err := h.reconSvc.SubmitCashbook(r.Context(), posID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	submitted(w, id)
}

func RegisterWorkspaceRoutes(router *mux.Router, reconSvc service.ReconciliationService, maxUploadBytes int64) {
	h := NewWorkspaceHandler(reconSvc, maxUploadBytes)
	pos := router.PathPrefix("/api/pos/{posId}").Subrouter()

	pos.HandleFunc("/workspace", h.Get).Methods("GET")
	pos.HandleFunc("/agent", h.SetAgent).Methods("PUT")

	pos.HandleFunc("/draft", h.StartDraft).Methods("POST")
	pos.HandleFunc("/draft", h.SetDraftOptions).Methods("PATCH")
	pos.HandleFunc("/draft/rows", h.AddRows).Methods("POST")
	pos.HandleFunc("/draft/rows", h.ClearDraft).Methods("DELETE")
	pos.HandleFunc("/draft/rows/{index}", h.UpdateRow).Methods("PATCH")
	pos.HandleFunc("/draft/rows/{index}", h.RemoveRow).Methods("DELETE")
	pos.HandleFunc("/draft/import", h.ImportDraft).Methods("POST")
	pos.HandleFunc("/draft/submit", h.SubmitDraft).Methods("POST")

	pos.HandleFunc("/summary", h.Summary).Methods("GET")
	pos.HandleFunc("/summary/submit", h.SubmitSummary).Methods("POST")
	pos.HandleFunc("/batches", h.ClearBatches).Methods("DELETE")

	pos.HandleFunc("/ledger", h.MatchView).Methods("GET")
	pos.HandleFunc("/ledger/transactions", h.AddTransaction).Methods("POST")
	pos.HandleFunc("/ledger/transactions/{txId}", h.UpdateTransaction).Methods("PATCH")
	pos.HandleFunc("/ledger/transactions/{txId}", h.RemoveTransaction).Methods("DELETE")
	pos.HandleFunc("/ledger/import", h.ImportLedger).Methods("POST")
	pos.HandleFunc("/ledger/mode", h.ToggleMode).Methods("POST")
	pos.HandleFunc("/ledger/selection/{txId}", h.ToggleSelection).Methods("POST")
	pos.HandleFunc("/ledger/commit", h.Commit).Methods("POST")

	pos.HandleFunc("/cashbook/seed", h.SeedCashbook).Methods("POST")
	pos.HandleFunc("/cashbook/submit", h.SubmitCashbook).Methods("POST")
	pos.HandleFunc("/cashbook/{date}", h.UpdateCashbookRow).Methods("PATCH")
}
