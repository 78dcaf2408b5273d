package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lunchly/internal/pkg/apperrors"
	"lunchly/internal/web"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = apperrors.NewBadRequest("request body is required")

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return 0, apperrors.NewBadRequest("customer id not found in URL path")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequest("invalid customer id in URL path: %s", idStr)
	}
	return id, nil
}

func customerPath(id int64) string {
	return fmt.Sprintf("/%d/", id)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeBody fills dst from a JSON body, or returns the parsed form values
// for any other content type. An absent body is a bad request either way.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isJSON(r) {
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(dst); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errEmptyBody
			}
			return nil, apperrors.NewBadRequest("malformed JSON body: %v", err)
		}
		return nil, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, apperrors.NewBadRequest("malformed form body: %v", err)
	}
	if len(r.PostForm) == 0 {
		return nil, errEmptyBody
	}
	return r.PostForm, nil
}

func redirectToCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	http.Redirect(w, r, customerPath(id), http.StatusSeeOther)
}

func render(w http.ResponseWriter, r *http.Request, renderer web.Renderer, logger *slog.Logger, name string, data map[string]any) {
	if err := renderer.Render(w, http.StatusOK, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Failed to render page", slog.String("template", name), slog.Any("error", err))
		respondError(w, r, renderer, logger, err)
	}
}

// respondError is the single error boundary for every handler. NotFound and
// BadRequest are logged at warn, everything else at error.
func respondError(w http.ResponseWriter, r *http.Request, renderer web.Renderer, logger *slog.Logger, err error) {
	status := apperrors.StatusCode(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "Request failed", slog.Int("status", status), slog.Any("error", err))

	data := map[string]any{
		"status":     status,
		"statusText": http.StatusText(status),
		"message":    apperrors.Message(err),
	}
	if renderErr := renderer.Render(w, status, web.ErrorTemplate, data); renderErr != nil {
		logger.ErrorContext(r.Context(), "Failed to render error page", slog.Any("error", renderErr))
		http.Error(w, http.StatusText(status), status)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
