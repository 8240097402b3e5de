// Package handler exposes announcements over HTTP. Handlers decode and cap
// request bodies, delegate to the service, and route every failure through
// the shared envelope writer.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pawtrail/internal/announcement/models"
	"pawtrail/internal/announcement/service"
	"pawtrail/internal/announcement/store"
	"pawtrail/internal/httpapi/shared"
	dErrors "pawtrail/pkg/domain-errors"
	"pawtrail/pkg/requestcontext"
)

type Handler struct {
	svc           *service.Service
	logger        *slog.Logger
	maxBodyBytes  int64
	maxPhotoBytes int64
}

func New(svc *service.Service, logger *slog.Logger, maxBodyBytes, maxPhotoBytes int64) *Handler {
	return &Handler{
		svc:           svc,
		logger:        logger,
		maxBodyBytes:  maxBodyBytes,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// Register mounts the public announcement routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Post("/{id}/photos", h.handleUploadPhoto)
	r.Patch("/{id}/status", h.handleUpdateStatus)
}

// RegisterAdmin mounts the privileged maintenance routes. The caller wraps
// these in the admin-token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[models.CreateAnnouncementRequest](w, r, h.maxBodyBytes)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	a, password, err := h.svc.Create(r.Context(), req)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	shared.WriteJSON(w, r, http.StatusCreated, CreateAnnouncementResponse{
		ID:                 a.ID.String(),
		ManagementPassword: password,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var f store.Filter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.Status(strings.ToUpper(raw))
		if !status.IsValid() {
			shared.WriteError(w, r, dErrors.New(dErrors.CodeInvalidParameter, "status must be MISSING or FOUND").
				WithField("status"))
			return
		}
		f.Status = status
	}

	list, err := h.svc.List(r.Context(), f)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.WriteJSON(w, r, http.StatusOK, toResponseList(list))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.WriteJSON(w, r, http.StatusOK, toResponse(a))
}

// handleUploadPhoto parses credentials before touching the body, and hands
// the service a deferred body reader so the lookup/verify step also runs
// before any upload byte is consumed.
func (h *Handler) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	_, secret, reason, err := parseBasicAuth(r)
	if err != nil {
		h.logger.DebugContext(r.Context(), "photo upload rejected before body read",
			"request_id", requestcontext.RequestID(r.Context()),
			"reason", reason,
		)
		shared.WriteError(w, r, err)
		return
	}

	readPhoto := func() ([]byte, error) {
		return h.readPhotoPart(w, r)
	}

	if err := h.svc.UploadPhoto(r.Context(), chi.URLParam(r, "id"), secret, readPhoto); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	_, secret, reason, err := parseBasicAuth(r)
	if err != nil {
		h.logger.DebugContext(r.Context(), "status update rejected",
			"request_id", requestcontext.RequestID(r.Context()),
			"reason", reason,
		)
		shared.WriteError(w, r, err)
		return
	}

	req, err := decodeJSON[models.UpdateStatusRequest](w, r, h.maxBodyBytes)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	a, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), secret, req)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.WriteJSON(w, r, http.StatusOK, toResponse(a))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readPhotoPart pulls the "photo" multipart field. The transport cap leaves
// headroom for multipart framing; the part itself is read up to one byte past
// the photo ceiling so the sniffer can tell "at the limit" from "over it".
func (h *Handler) readPhotoPart(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+(32<<10))

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidFormat, "request must be multipart/form-data")
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return nil, err
			}
			return nil, dErrors.New(dErrors.CodeInvalidFormat, "malformed multipart body")
		}
		if part.FormName() != "photo" {
			part.Close()
			continue
		}
		data, err := readPart(part, h.maxPhotoBytes)
		part.Close()
		return data, err
	}

	return nil, dErrors.New(dErrors.CodeMissingValue, "photo file is required").
		WithField("photo")
}

func readPart(part *multipart.Part, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxBytes+1))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, dErrors.New(dErrors.CodeInvalidFormat, "malformed multipart body")
	}
	return data, nil
}

// decodeJSON reads a capped JSON body into T. Transport-level overflows pass
// through untouched so the envelope writer can map them to 413.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (*T, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, dErrors.New(dErrors.CodeInvalidFormat, "request body is not valid JSON")
	}
	return &req, nil
}
