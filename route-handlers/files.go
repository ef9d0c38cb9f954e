package routehandlers

import (
	"fmt"
	"net/http"

	"github.com/opencongress/congresso/storage"
	"github.com/opencongress/congresso/webutil"
)

// FileHandler exposes the two pass-through storage queries the clients
// need: existence checks and folder listings.
type FileHandler struct {
	Storer storage.ContentStorer
}

func NewFileHandler(storer storage.ContentStorer) *FileHandler {
	return &FileHandler{Storer: storer}
}

func (h *FileHandler) HandleFileExists(w http.ResponseWriter, r *http.Request) error {
	path := r.URL.Query().Get("path")
	if path == "" {
		return webutil.ErrBadRequest("path query parameter is required")
	}

	exists, err := h.Storer.Exists(r.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to check existence of %q: %w", path, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"path":   path,
		"exists": exists,
	})
	return nil
}

func (h *FileHandler) HandleListFiles(w http.ResponseWriter, r *http.Request) error {
	prefix := r.URL.Query().Get("path")
	if prefix == "" {
		return webutil.ErrBadRequest("path query parameter is required")
	}

	paths, err := h.Storer.List(r.Context(), prefix)
	if err != nil {
		return fmt.Errorf("failed to list files under %q: %w", prefix, err)
	}
	if paths == nil {
		paths = []string{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"path":  prefix,
		"files": paths,
	})
	return nil
}
