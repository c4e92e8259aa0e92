package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

type uploadReportRequest struct {
	Name          string          `json:"name" validate:"required"`
	PosID         string          `json:"posId" validate:"required"`
	Date          string          `json:"date" validate:"required"`
	Source        string          `json:"source" validate:"required"`
	PaymentMethod string          `json:"paymentMethod"`
	Bank          string          `json:"bank"`
	TableData     json.RawMessage `json:"tableData"`
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (h *ReportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required field: name, posId, date, or source")
		return
	}
	var table []domain.TableRow
	if raw := bytes.TrimSpace(req.TableData); len(raw) == 0 || raw[0] != '[' || json.Unmarshal(raw, &table) != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid or missing tableData")
		return
	}

	rep, err := h.reportSvc.Upload(r.Context(), domain.SubmitRequest{
		Name:          req.Name,
		PosID:         req.PosID,
		Date:          req.Date,
		Source:        req.Source,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Bank:          req.Bank,
		TableData:     table,
	})
	if err != nil {
		if domain.IsValidationError(err) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "Error saving report", "pos_id", req.PosID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Database error", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Report saved successfully",
		"reportId": rep.ID,
		"name":     rep.Name,
		"posId":    rep.PosID,
		"date":     rep.Date,
		"source":   rep.Source,
	})
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportSvc.ListReports(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Database error", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Report not found")
		return
	}
	rep, err := h.reportSvc.GetReport(r.Context(), id)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Report not found")
		return
	}
	if err := h.reportSvc.DeleteReport(r.Context(), id); err != nil {
		h.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Report deleted", "id": id})
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Report not found")
		return
	}
	var buf bytes.Buffer
	rep, err := h.reportSvc.ExportReport(r.Context(), id, &buf)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%d-%s.xlsx"`, rep.ID, rep.Date))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("Failed to stream export", "report_id", rep.ID, "error", err)
	}
}

func (h *ReportHandler) storeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Report not found")
		return
	}
	logger.ErrorContext(r.Context(), "Report lookup failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Database error", "error": err.Error()})
}

func RegisterReportRoutes(router *mux.Router, reportSvc service.ReportService) {
	h := NewReportHandler(reportSvc)
	router.HandleFunc("/api/reports/upload", h.Upload).Methods("POST")
	router.HandleFunc("/api/reports", h.List).Methods("GET")
	router.HandleFunc("/api/reports/{id}", h.Get).Methods("GET")
	router.HandleFunc("/api/reports/{id}", h.Delete).Methods("DELETE")
	router.HandleFunc("/api/reports/{id}/export", h.Export).Methods("GET")
}
