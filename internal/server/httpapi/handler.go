// Package httpapi exposes try-on generation, try-on history and the outfit
// collection over a bearer-authenticated JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/fitroom/internal/journal"
	"github.com/dmitrijs2005/fitroom/internal/logging"
	"github.com/dmitrijs2005/fitroom/internal/outfits"
	"github.com/dmitrijs2005/fitroom/internal/tryon"
)

const (
	maxUploadMemory = 32 << 20
	historyLimit    = 50
)

type TryOnRunner interface {
	Start(ctx context.Context, userID string, userPhoto []byte, sel tryon.Selection) *tryon.Job
}

type ResultReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

type History interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*journal.Entry, error)
	GetByTaskID(ctx context.Context, taskID string) (*journal.Entry, error)
}

type OutfitService interface {
	List(ctx context.Context, userID string) ([]outfits.Record, error)
	Save(ctx context.Context, userID, name string, image []byte) (outfits.Record, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleFavorite(ctx context.Context, userID, id string, favorite bool) (bool, error)
}

type Handler struct {
	runner  TryOnRunner
	results ResultReader
	history History
	outfits OutfitService
	secret  []byte
	log     logging.Logger
}

func NewHandler(runner TryOnRunner, results ResultReader, history History, outfitSvc OutfitService, secret string, log logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{
		runner:  runner,
		results: results,
		history: history,
		outfits: outfitSvc,
		secret:  []byte(secret),
		log:     log,
	}
}

// Routes builds the router. Everything except /healthz needs a token.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests(h.log))
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(requireToken(h.secret))

	api.HandleFunc("/try-on", h.createTryOn).Methods(http.MethodPost)
	api.HandleFunc("/try-on/history", h.listHistory).Methods(http.MethodGet)
	api.HandleFunc("/try-on/{task_id}/image", h.tryOnImage).Methods(http.MethodGet)

	api.HandleFunc("/outfits", h.listOutfits).Methods(http.MethodGet)
	api.HandleFunc("/outfits", h.saveOutfit).Methods(http.MethodPost)
	api.HandleFunc("/outfits/{id}", h.deleteOutfit).Methods(http.MethodDelete)
	api.HandleFunc("/outfits/{id}/favorite", h.toggleFavorite).Methods(http.MethodPut)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tryOnResponse struct {
	TaskID   string          `json:"task_id"`
	ImageURL string          `json:"image_url"`
	Size     int             `json:"size"`
	Outfit   *outfits.Record `json:"outfit,omitempty"`
}

func (h *Handler) createTryOn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}

	photo, err := formFile(r, "photo")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if len(photo) == 0 {
		h.respondError(w, r, fmt.Errorf("%w: photo", errMissingField))
		return
	}

	sel, err := selectionFrom(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	save, _ := strconv.ParseBool(r.FormValue("save"))

	job := h.runner.Start(ctx, userID, photo, sel)
	out, err := job.Wait(ctx)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := tryOnResponse{
		TaskID:   out.TaskID,
		ImageURL: "/try-on/" + out.TaskID + "/image",
		Size:     out.Size,
	}

	if save {
		rec, err := h.saveResult(ctx, userID, r.FormValue("name"), out)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		resp.Outfit = &rec
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) saveResult(ctx context.Context, userID, name string, out *tryon.GeneratedImage) (outfits.Record, error) {
	data, err := h.results.Read(ctx, out.Key)
	if err != nil {
		return outfits.Record{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Try-on " + out.TaskID
	}
	return h.outfits.Save(ctx, userID, name, data)
}

func selectionFrom(r *http.Request) (tryon.Selection, error) {
	garment, err := formFile(r, "garment")
	if err != nil {
		return tryon.Selection{}, err
	}
	upper, err := formFile(r, "upper")
	if err != nil {
		return tryon.Selection{}, err
	}
	lower, err := formFile(r, "lower")
	if err != nil {
		return tryon.Selection{}, err
	}

	sel := tryon.Selection{Garment: garment, Upper: upper, Lower: lower}
	return sel, sel.Validate()
}

// formFile returns the uploaded file named field, or nil when absent.
func formFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errBadBody, field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errBadBody, field, err)
	}
	return data, nil
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.ListByUser(r.Context(), userIDFrom(r.Context()), historyLimit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) tryOnImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID := mux.Vars(r)["task_id"]

	entry, err := h.history.GetByTaskID(ctx, taskID)
	if err == nil && (entry.UserID != userIDFrom(ctx) || entry.Status != journal.StatusSucceeded) {
		err = journal.ErrNotFound
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	data, err := h.results.Read(ctx, entry.ResultKey)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (h *Handler) listOutfits(w http.ResponseWriter, r *http.Request) {
	records, err := h.outfits.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, outfits.Filter(records, r.URL.Query().Get("category")))
}

func (h *Handler) saveOutfit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}

	image, err := formFile(r, "image")
	if err == nil && len(image) == 0 {
		err = fmt.Errorf("%w: image", errMissingField)
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.respondError(w, r, fmt.Errorf("%w: name", errMissingField))
		return
	}

	rec, err := h.outfits.Save(r.Context(), userIDFrom(r.Context()), name, image)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

func (h *Handler) deleteOutfit(w http.ResponseWriter, r *http.Request) {
	if err := h.outfits.Delete(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type favoriteBody struct {
	IsFavorite *bool `json:"is_favorite"`
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	var body favoriteBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsFavorite == nil {
		h.respondError(w, r, fmt.Errorf("%w: expected {\"is_favorite\": bool}", errBadBody))
		return
	}

	fav, err := h.outfits.ToggleFavorite(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"], *body.IsFavorite)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"is_favorite": fav})
}
