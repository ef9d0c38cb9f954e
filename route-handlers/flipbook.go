package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/opencongress/congresso/flipbook"
	"github.com/opencongress/congresso/storage"
	"github.com/opencongress/congresso/webutil"
)

type FlipbookHandler struct {
	Renderer *flipbook.Renderer
	Storer   storage.ContentStorer
}

func NewFlipbookHandler(renderer *flipbook.Renderer, storer storage.ContentStorer) *FlipbookHandler {
	return &FlipbookHandler{Renderer: renderer, Storer: storer}
}

type renderRequest struct {
	Source    string  `json:"source"`
	Scale     float64 `json:"scale"`
	BookMode  bool    `json:"book_mode"`
	Mobile    bool    `json:"mobile"`
	PageLimit int     `json:"page_limit"`
}

// HandleRender rasterizes a PDF and returns the page manifest: the ordered
// page entries with their kinds, without the image bytes themselves.
func (h *FlipbookHandler) HandleRender(w http.ResponseWriter, r *http.Request) error {
	var req renderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Source == "" {
		return webutil.ErrBadRequest("source is required")
	}
	if req.PageLimit < 0 {
		return webutil.ErrBadRequest("page_limit must not be negative")
	}

	result, err := h.Renderer.Render(r.Context(), req.Source, flipbook.RenderOptions{
		Scale:     req.Scale,
		BookMode:  req.BookMode,
		Mobile:    req.Mobile,
		PageLimit: req.PageLimit,
	})
	if err != nil {
		return mapRenderError(req.Source, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, result)
	return nil
}

// HandleGetEPosterPage serves one pre-rendered page image of an e-poster
// from the object store.
func (h *FlipbookHandler) HandleGetEPosterPage(w http.ResponseWriter, r *http.Request) error {
	eposterID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(eposterID); err != nil {
		return webutil.ErrBadRequest("Invalid e-poster ID format")
	}
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 0 {
		return webutil.ErrBadRequest("Invalid page index")
	}

	path := flipbook.PagePath(eposterID, page)
	exists, err := h.Storer.Exists(r.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to check page %d of e-poster %s: %w", page, eposterID, err)
	}
	if !exists {
		return webutil.ErrNotFound("Page image not found; the e-poster may not be pre-rendered yet")
	}

	data, err := h.Storer.Fetch(r.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to fetch page %d of e-poster %s: %w", page, eposterID, err)
	}

	w.Header().Set(webutil.HeaderContentType, "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return nil
}

// mapRenderError translates structural render failures: a missing document
// is a 404, an unrenderable one is unprocessable.
func mapRenderError(source string, err error) error {
	switch {
	case errors.Is(err, flipbook.ErrDocumentNotFound):
		return webutil.ErrNotFound(fmt.Sprintf("Document %q not found", source))
	case errors.Is(err, flipbook.ErrPasswordProtected):
		return webutil.ErrUnprocessableEntity("Document is password protected")
	case errors.Is(err, flipbook.ErrNoPages):
		return webutil.ErrUnprocessableEntity("Document has no pages")
	default:
		return fmt.Errorf("failed to render %q: %w", source, err)
	}
}
