package routehandlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/opencongress/congresso/archive"
	"github.com/opencongress/congresso/datastore"
	"github.com/opencongress/congresso/models"
	"github.com/opencongress/congresso/webutil"
)

type CongressHandler struct {
	Repo         *datastore.CongressRepository
	ActivityRepo *datastore.ActivityRepository
	EPosterRepo  *datastore.EPosterRepository
	WebinarRepo  *datastore.WebinarRepository
}

func NewCongressHandler(repo *datastore.CongressRepository, activityRepo *datastore.ActivityRepository, eposterRepo *datastore.EPosterRepository, webinarRepo *datastore.WebinarRepository) *CongressHandler {
	return &CongressHandler{
		Repo:         repo,
		ActivityRepo: activityRepo,
		EPosterRepo:  eposterRepo,
		WebinarRepo:  webinarRepo,
	}
}

// congressResponse is a congress with its markdown description rendered
// to HTML for direct display.
type congressResponse struct {
	models.Congress
	DescriptionHTML string `json:"description_html,omitempty"`
}

// HandleGetCongresses lists congresses, optionally filtered by state
// (upcoming, active, past).
func (h *CongressHandler) HandleGetCongresses(w http.ResponseWriter, r *http.Request) error {
	stateStr := r.URL.Query().Get("state")

	var congresses []models.Congress
	var err error
	if stateStr != "" {
		state := models.CongressState(stateStr)
		switch state {
		case models.CongressStateUpcoming, models.CongressStateActive, models.CongressStatePast:
		default:
			return webutil.ErrBadRequest("Invalid state value. Must be one of: upcoming, active, past")
		}
		congresses, err = h.Repo.GetCongressesByState(r.Context(), state)
	} else {
		congresses, err = h.Repo.GetAllCongresses(r.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve congresses: %w", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, congresses)
	return nil
}

func (h *CongressHandler) HandleGetCongress(w http.ResponseWriter, r *http.Request) error {
	congress, err := h.lookupCongress(r)
	if err != nil {
		return err
	}

	resp := congressResponse{Congress: *congress}
	if congress.Description != "" {
		html, renderErr := archive.RenderDescription(congress.Description)
		if renderErr != nil {
			return fmt.Errorf("failed to render description for congress %s: %w", congress.ID, renderErr)
		}
		resp.DescriptionHTML = html
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
	return nil
}

// HandleGetCongressPhotos resolves the congress's gallery photo paths from
// its image count.
func (h *CongressHandler) HandleGetCongressPhotos(w http.ResponseWriter, r *http.Request) error {
	congress, err := h.lookupCongress(r)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"congress_id": congress.ID,
		"photos":      archive.GalleryPaths(congress),
	})
	return nil
}

func (h *CongressHandler) HandleGetCongressActivities(w http.ResponseWriter, r *http.Request) error {
	congress, err := h.lookupCongress(r)
	if err != nil {
		return err
	}

	activities, err := h.ActivityRepo.GetActivitiesByCongressID(r.Context(), congress.ID)
	if err != nil {
		return fmt.Errorf("failed to retrieve activities for congress %s: %w", congress.ID, err)
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, activities)
	return nil
}

func (h *CongressHandler) HandleGetCongressEPosters(w http.ResponseWriter, r *http.Request) error {
	congress, err := h.lookupCongress(r)
	if err != nil {
		return err
	}

	eposters, err := h.EPosterRepo.GetEPostersByCongressID(r.Context(), congress.ID)
	if err != nil {
		return fmt.Errorf("failed to retrieve e-posters for congress %s: %w", congress.ID, err)
	}
	if eposters == nil {
		eposters = []models.EPoster{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, eposters)
	return nil
}

func (h *CongressHandler) HandleGetCongressWebinars(w http.ResponseWriter, r *http.Request) error {
	congress, err := h.lookupCongress(r)
	if err != nil {
		return err
	}

	webinars, err := h.WebinarRepo.GetWebinarsByCongressID(r.Context(), congress.ID)
	if err != nil {
		return fmt.Errorf("failed to retrieve webinars for congress %s: %w", congress.ID, err)
	}
	if webinars == nil {
		webinars = []models.Webinar{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, webinars)
	return nil
}

// lookupCongress resolves the path parameter as a congress ID, falling back
// to slug lookup so archive URLs stay human-readable.
func (h *CongressHandler) lookupCongress(r *http.Request) (*models.Congress, error) {
	idOrSlug := chi.URLParam(r, "id")
	if idOrSlug == "" {
		return nil, webutil.ErrBadRequest("Congress identifier is required")
	}

	if _, err := uuid.Parse(idOrSlug); err == nil {
		congress, err := h.Repo.GetCongressByID(r.Context(), idOrSlug)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve congress %s: %w", idOrSlug, err)
		}
		return congress, nil
	}

	congress, err := h.Repo.GetCongressBySlug(r.Context(), idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve congress %s: %w", idOrSlug, err)
	}
	return congress, nil
}
