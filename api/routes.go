package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/opencongress/congresso/route-handlers"
	"github.com/opencongress/congresso/webutil"
)

const (
	apiBasePath        = "/api"
	abstractsBasePath  = "/abstracts"
	congressesBasePath = "/congresses"
	accountsBasePath   = "/accounts"
	flipbookBasePath   = "/flipbook"
	filesBasePath      = "/files"
)

const (
	statusSubPath       = "/status"
	submitSubPath       = "/submit"
	typeChangeSubPath   = "/type-change"
	finalVersionSubPath = "/final-version"
	transitionsSubPath  = "/transitions"
	notesSubPath        = "/notes"
	photosSubPath       = "/photos"
	activitiesSubPath   = "/activities"
	epostersSubPath     = "/eposters"
	webinarsSubPath     = "/webinars"
)

const (
	paramID = "id" // General parameter name for resource IDs
)

func SetupRoutes(
	abstractHandler *rh.AbstractHandler,
	congressHandler *rh.CongressHandler,
	accountHandler *rh.AccountHandler,
	flipbookHandler *rh.FlipbookHandler,
	fileHandler *rh.FileHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8))

	r.Route(apiBasePath, func(r chi.Router) {
		configureAbstractRoutes(r, abstractHandler)
		configureCongressRoutes(r, congressHandler)
		configureAccountRoutes(r, accountHandler)
		configureFlipbookRoutes(r, flipbookHandler)
		configureFileRoutes(r, fileHandler)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Abstract Routes ---
func configureAbstractRoutes(r chi.Router, handler *rh.AbstractHandler) {
	specificAbstractPath := pathWithParam("", paramID)

	r.Route(abstractsBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetAbstracts)) // Query params for account_id / status
		r.Post("/", webutil.MakeHandler(handler.HandleCreateAbstract))
		r.Route(specificAbstractPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetAbstract))
			r.Put("/", webutil.MakeHandler(handler.HandleUpdateAbstract))    // Draft-only edit
			r.Delete("/", webutil.MakeHandler(handler.HandleDeleteAbstract)) // Draft-only
			r.Post(submitSubPath, webutil.MakeHandler(handler.HandleSubmitDraft))
			r.Patch(statusSubPath, webutil.MakeHandler(handler.HandleTransitionStatus))
			r.Post(typeChangeSubPath, webutil.MakeHandler(handler.HandleExecuteTypeChange))
			r.Post(finalVersionSubPath, webutil.MakeHandler(handler.HandleUploadFinalVersion))
			r.Get(transitionsSubPath, webutil.MakeHandler(handler.HandleGetTransitions))
			r.Patch(notesSubPath, webutil.MakeHandler(handler.HandleUpdateAdminNotes))
		})
	})
}

// --- Congress Archive Routes ---
func configureCongressRoutes(r chi.Router, handler *rh.CongressHandler) {
	specificCongressPath := pathWithParam("", paramID)

	r.Route(congressesBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetCongresses)) // Query param for state
		r.Route(specificCongressPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetCongress))
			r.Get(photosSubPath, webutil.MakeHandler(handler.HandleGetCongressPhotos))
			r.Get(activitiesSubPath, webutil.MakeHandler(handler.HandleGetCongressActivities))
			r.Get(epostersSubPath, webutil.MakeHandler(handler.HandleGetCongressEPosters))
			r.Get(webinarsSubPath, webutil.MakeHandler(handler.HandleGetCongressWebinars))
		})
	})
}

// --- Account Routes ---
func configureAccountRoutes(r chi.Router, handler *rh.AccountHandler) {
	specificAccountPath := pathWithParam("", paramID)

	r.Route(accountsBasePath, func(r chi.Router) {
		r.Post("/", webutil.MakeHandler(handler.HandleCreateAccount))
		r.Route(specificAccountPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetAccount))
			r.Put("/", webutil.MakeHandler(handler.HandleUpdateAccount))
		})
	})
}

// --- Flipbook Routes ---
func configureFlipbookRoutes(r chi.Router, handler *rh.FlipbookHandler) {
	r.Route(flipbookBasePath, func(r chi.Router) {
		r.Post("/render", webutil.MakeHandler(handler.HandleRender))
		// Pre-rendered e-poster page images
		r.Get(epostersSubPath+pathWithParam("", paramID)+"/pages/{page}", webutil.MakeHandler(handler.HandleGetEPosterPage))
	})
}

// --- File Routes ---
func configureFileRoutes(r chi.Router, handler *rh.FileHandler) {
	r.Route(filesBasePath, func(r chi.Router) {
		r.Get("/exists", webutil.MakeHandler(handler.HandleFileExists))
		r.Get("/list", webutil.MakeHandler(handler.HandleListFiles))
	})
}

// --- Utility Functions ---

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
