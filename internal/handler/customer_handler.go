package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tmarins/onboarding-api/internal/domain"
	"github.com/tmarins/onboarding-api/internal/port"
	"github.com/tmarins/onboarding-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxSubmitFormMemory bounds the in-memory portion of a multipart parse;
// larger file parts spill to temp files.
const maxSubmitFormMemory = 32 << 20

// ============================================================
// Customers — submit / list / own / status
// ============================================================

// submitCustomerHandler accepts the multipart submission form: basicInfo and
// ownerDetails as JSON-serialized fields, declaration as a boolean field,
// and up to maxAttachments file parts under "attachments".
func submitCustomerHandler(custSvc *service.CustomerService, files port.FileStore, maxAttachments int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /customers")
		defer span.End()

		caller, ok := AuthUserFromContext(ctx)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := r.ParseMultipartForm(maxSubmitFormMemory); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		in := &domain.SubmitInput{
			Declaration: parseBoolField(r.FormValue("declaration")),
		}

		if raw := r.FormValue("basicInfo"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &in.BasicInfo); err != nil {
				writeError(w, http.StatusBadRequest, "invalid basicInfo")
				return
			}
		}
		if raw := r.FormValue("ownerDetails"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &in.OwnerDetails); err != nil {
				writeError(w, http.StatusBadRequest, "invalid ownerDetails")
				return
			}
		}

		uploads := r.MultipartForm.File["attachments"]
		if len(uploads) > maxAttachments {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("at most %d attachments allowed", maxAttachments))
			return
		}

		for _, fh := range uploads {
			ref, err := files.Save(ctx, fh)
			if err != nil {
				handleServiceError(w, &domain.ErrExternalService{Service: "storage", Err: err}, logger)
				return
			}
			in.Attachments = append(in.Attachments, ref)
		}

		rec, err := custSvc.Submit(ctx, caller, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.SubmitResponse{Msg: "Customer saved", Customer: rec})
	}
}

func listCustomersHandler(custSvc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /customers")
		defer span.End()

		caller, ok := AuthUserFromContext(ctx)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		records, err := custSvc.ListAll(ctx, caller)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, records)
	}
}

func getOwnCustomerHandler(custSvc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /customers/me")
		defer span.End()

		caller, ok := AuthUserFromContext(ctx)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		rec, err := custSvc.GetOwn(ctx, caller)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

func setCustomerStatusHandler(custSvc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /customers/{id}/status")
		defer span.End()

		caller, ok := AuthUserFromContext(ctx)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req domain.StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rec, err := custSvc.SetStatus(ctx, caller, chi.URLParam(r, "id"), req.Status)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}
