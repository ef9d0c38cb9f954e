package routehandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/opencongress/congresso/datastore"
	"github.com/opencongress/congresso/models"
	"github.com/opencongress/congresso/review"
	"github.com/opencongress/congresso/storage"
	"github.com/opencongress/congresso/webutil"
)

// Final version uploads are capped well above any realistic abstract PDF.
const maxFinalVersionBytes = 32 << 20

// AbstractStore is the slice of the datastore the handler needs.
type AbstractStore interface {
	CreateAbstract(ctx context.Context, a *models.Abstract) error
	GetAbstractByID(ctx context.Context, abstractID string) (*models.Abstract, error)
	GetAbstractsByAccountID(ctx context.Context, accountID string) ([]models.Abstract, error)
	GetAbstractsByStatus(ctx context.Context, status models.AbstractStatus) ([]models.Abstract, error)
	GetAllAbstracts(ctx context.Context) ([]models.Abstract, error)
	UpdateAbstractContent(ctx context.Context, a *models.Abstract, expectedVersion int) error
	UpdateAbstractStatus(ctx context.Context, abstractID string, status models.AbstractStatus, expectedVersion int) error
	UpdateAbstractAdminNotes(ctx context.Context, abstractID, notes string) error
	DeleteDraftAbstract(ctx context.Context, abstractID string) error
}

type AbstractHandler struct {
	Repo          AbstractStore
	AccountRepo   *datastore.AccountRepository
	ReviewService *review.Service
	Storer        storage.ContentStorer
}

func NewAbstractHandler(repo AbstractStore, accountRepo *datastore.AccountRepository, reviewService *review.Service, storer storage.ContentStorer) *AbstractHandler {
	return &AbstractHandler{
		Repo:          repo,
		AccountRepo:   accountRepo,
		ReviewService: reviewService,
		Storer:        storer,
	}
}

type createAbstractRequest struct {
	AccountID     string `json:"account_id"`
	Title         string `json:"title"`
	Introduction  string `json:"introduction"`
	Materials     string `json:"materials"`
	Results       string `json:"results"`
	Discussion    string `json:"discussion"`
	Conclusion    string `json:"conclusion"`
	Observations  string `json:"observations"`
	Type          string `json:"type"`
	Theme         string `json:"theme"`
	AuthorName    string `json:"author_name"`
	AuthorSurname string `json:"author_surname"`
	AuthorEmail   string `json:"author_email"`
	AuthorPhone   string `json:"author_phone"`
	CoAuthors     string `json:"co_authors"` // raw comma-separated input
	Draft         bool   `json:"draft"`      // save as draft instead of submitting
}

type updateAbstractRequest struct {
	Title        string `json:"title"`
	Introduction string `json:"introduction"`
	Materials    string `json:"materials"`
	Results      string `json:"results"`
	Discussion   string `json:"discussion"`
	Conclusion   string `json:"conclusion"`
	Observations string `json:"observations"`
	Type         string `json:"type"`
	Theme        string `json:"theme"`
	CoAuthors    string `json:"co_authors"`
	Version      int    `json:"version"`
}

type transitionRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actor_id"`
	Note    string `json:"note"`
}

type actorRequest struct {
	ActorID string `json:"actor_id"`
}

// HandleCreateAbstract accepts a new submission or a draft save. Submitting
// requires a complete account profile; drafts do not.
func (h *AbstractHandler) HandleCreateAbstract(w http.ResponseWriter, r *http.Request) error {
	var req createAbstractRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.AccountID == "" {
		return webutil.ErrBadRequest("account_id is required")
	}
	if _, err := uuid.Parse(req.AccountID); err != nil {
		return webutil.ErrBadRequest("Invalid account_id format")
	}
	if req.Title == "" {
		return webutil.ErrBadRequest("Title is required")
	}
	abstractType, ok := models.IsValidAbstractType(req.Type)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid type value. Must be one of: %s, %s", models.AbstractTypePoster, models.AbstractTypeOral))
	}
	theme, ok := models.IsValidAbstractTheme(req.Theme)
	if !ok {
		return webutil.ErrBadRequest("Invalid theme value")
	}

	account, err := h.AccountRepo.GetAccountByID(r.Context(), req.AccountID)
	if err != nil {
		return fmt.Errorf("failed to look up account %s: %w", req.AccountID, err)
	}

	status := models.AbstractStatusSubmitted
	if req.Draft {
		status = models.AbstractStatusDraft
	} else if !account.IsProfileComplete() {
		// Distinguished error so the client can redirect to profile completion.
		return webutil.ErrUnprocessableEntity("profile_incomplete: account profile must be completed before submitting an abstract")
	}

	now := time.Now().UTC()
	abstract := models.Abstract{
		ID:            uuid.NewString(),
		AccountID:     req.AccountID,
		Title:         req.Title,
		Introduction:  req.Introduction,
		Materials:     req.Materials,
		Results:       req.Results,
		Discussion:    req.Discussion,
		Conclusion:    req.Conclusion,
		Observations:  req.Observations,
		Type:          abstractType,
		Theme:         theme,
		AuthorName:    req.AuthorName,
		AuthorSurname: req.AuthorSurname,
		AuthorEmail:   req.AuthorEmail,
		AuthorPhone:   req.AuthorPhone,
		CoAuthors:     models.NormalizeCoAuthors(req.CoAuthors),
		Status:        status,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if abstract.AuthorName == "" {
		abstract.AuthorName = account.Name
	}
	if abstract.AuthorSurname == "" {
		abstract.AuthorSurname = account.Surname
	}
	if abstract.AuthorEmail == "" {
		abstract.AuthorEmail = account.Email
	}

	if err := h.Repo.CreateAbstract(r.Context(), &abstract); err != nil {
		return fmt.Errorf("failed to create abstract for account %s: %w", req.AccountID, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, abstract)
	return nil
}

// HandleGetAbstracts lists abstracts, filtered by account_id or status.
func (h *AbstractHandler) HandleGetAbstracts(w http.ResponseWriter, r *http.Request) error {
	accountID := r.URL.Query().Get("account_id")
	statusStr := r.URL.Query().Get("status")

	var abstracts []models.Abstract
	var err error

	switch {
	case accountID != "":
		if _, parseErr := uuid.Parse(accountID); parseErr != nil {
			return webutil.ErrBadRequest("Invalid account_id format in query parameter")
		}
		abstracts, err = h.Repo.GetAbstractsByAccountID(r.Context(), accountID)
	case statusStr != "":
		status, ok := models.IsValidAbstractStatus(statusStr)
		if !ok {
			return webutil.ErrBadRequest("Invalid status value in query parameter")
		}
		abstracts, err = h.Repo.GetAbstractsByStatus(r.Context(), status)
	default:
		abstracts, err = h.Repo.GetAllAbstracts(r.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve abstracts: %w", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, abstracts)
	return nil
}

func (h *AbstractHandler) HandleGetAbstract(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	abstract, err := h.Repo.GetAbstractByID(r.Context(), abstractID)
	if err != nil {
		return fmt.Errorf("failed to retrieve abstract %s: %w", abstractID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, abstract)
	return nil
}

// HandleUpdateAbstract replaces the editable fields of a draft. Only drafts
// may be edited, and the caller must present the current version token.
func (h *AbstractHandler) HandleUpdateAbstract(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	var req updateAbstractRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Title == "" {
		return webutil.ErrBadRequest("Title is required")
	}
	abstractType, ok := models.IsValidAbstractType(req.Type)
	if !ok {
		return webutil.ErrBadRequest("Invalid type value")
	}
	theme, ok := models.IsValidAbstractTheme(req.Theme)
	if !ok {
		return webutil.ErrBadRequest("Invalid theme value")
	}
	if req.Version <= 0 {
		return webutil.ErrBadRequest("Current version is required")
	}

	existing, err := h.Repo.GetAbstractByID(r.Context(), abstractID)
	if err != nil {
		return fmt.Errorf("failed to retrieve abstract %s: %w", abstractID, err)
	}
	if existing.Status != models.AbstractStatusDraft {
		return webutil.ErrUnprocessableEntity("Only draft abstracts can be edited")
	}

	existing.Title = req.Title
	existing.Introduction = req.Introduction
	existing.Materials = req.Materials
	existing.Results = req.Results
	existing.Discussion = req.Discussion
	existing.Conclusion = req.Conclusion
	existing.Observations = req.Observations
	existing.Type = abstractType
	existing.Theme = theme
	existing.CoAuthors = models.NormalizeCoAuthors(req.CoAuthors)

	if err := h.Repo.UpdateAbstractContent(r.Context(), existing, req.Version); err != nil {
		if errors.Is(err, datastore.ErrVersionConflict) {
			return webutil.ErrConflict("Abstract was modified concurrently; reload and retry")
		}
		return fmt.Errorf("failed to update abstract %s: %w", abstractID, err)
	}

	existing.Version = req.Version + 1
	existing.UpdatedAt = time.Now().UTC()
	webutil.RespondWithJSON(w, http.StatusOK, existing)
	return nil
}

// HandleSubmitDraft promotes a draft to submitted. The profile-completeness
// gate applies here, same as on direct submission.
func (h *AbstractHandler) HandleSubmitDraft(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	abstract, err := h.Repo.GetAbstractByID(r.Context(), abstractID)
	if err != nil {
		return fmt.Errorf("failed to retrieve abstract %s: %w", abstractID, err)
	}
	if abstract.Status != models.AbstractStatusDraft {
		return webutil.ErrUnprocessableEntity("Only draft abstracts can be submitted")
	}

	account, err := h.AccountRepo.GetAccountByID(r.Context(), abstract.AccountID)
	if err != nil {
		return fmt.Errorf("failed to look up account %s: %w", abstract.AccountID, err)
	}
	if !account.IsProfileComplete() {
		return webutil.ErrUnprocessableEntity("profile_incomplete: account profile must be completed before submitting an abstract")
	}

	if err := h.Repo.UpdateAbstractStatus(r.Context(), abstractID, models.AbstractStatusSubmitted, abstract.Version); err != nil {
		if errors.Is(err, datastore.ErrVersionConflict) {
			return webutil.ErrConflict("Abstract was modified concurrently; reload and retry")
		}
		return fmt.Errorf("failed to submit abstract %s: %w", abstractID, err)
	}

	abstract.Status = models.AbstractStatusSubmitted
	abstract.Version++
	abstract.UpdatedAt = time.Now().UTC()
	webutil.RespondWithJSON(w, http.StatusOK, abstract)
	return nil
}

// HandleDeleteAbstract removes a draft. Submitted abstracts are part of the
// review record and cannot be deleted.
func (h *AbstractHandler) HandleDeleteAbstract(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	abstract, err := h.Repo.GetAbstractByID(r.Context(), abstractID)
	if err != nil {
		return fmt.Errorf("failed to retrieve abstract %s: %w", abstractID, err)
	}
	if abstract.Status != models.AbstractStatusDraft {
		return webutil.ErrUnprocessableEntity("Only draft abstracts can be deleted")
	}

	if err := h.Repo.DeleteDraftAbstract(r.Context(), abstractID); err != nil {
		return fmt.Errorf("failed to delete draft abstract %s: %w", abstractID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// HandleTransitionStatus applies a reviewer's status change through the
// centralized state machine.
func (h *AbstractHandler) HandleTransitionStatus(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	var req transitionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	status, ok := models.IsValidAbstractStatus(req.Status)
	if !ok {
		return webutil.ErrBadRequest("Invalid status value")
	}

	abstract, err := h.ReviewService.Transition(r.Context(), abstractID, status, req.ActorID, req.Note)
	if err != nil {
		return mapReviewError(err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, abstract)
	return nil
}

// HandleExecuteTypeChange flips the presentation format of an abstract
// whose type change has been proposed, returning it to reviewing.
func (h *AbstractHandler) HandleExecuteTypeChange(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	var req actorRequest
	if r.ContentLength > 0 {
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
		}
		defer r.Body.Close()
	}

	abstract, err := h.ReviewService.ExecuteTypeChange(r.Context(), abstractID, req.ActorID)
	if err != nil {
		return mapReviewError(err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, abstract)
	return nil
}

// HandleUploadFinalVersion accepts the final PDF as a multipart upload,
// stores it with its content hash, and moves the abstract to final-version.
func (h *AbstractHandler) HandleUploadFinalVersion(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	// Validate the transition before touching storage, so a rejected
	// upload never leaves an orphan object behind.
	abstract, err := h.Repo.GetAbstractByID(r.Context(), abstractID)
	if err != nil {
		return fmt.Errorf("failed to retrieve abstract %s: %w", abstractID, err)
	}
	if !review.CanTransition(abstract.Status, models.AbstractStatusFinalVersion) {
		return webutil.ErrUnprocessableEntity(fmt.Sprintf("abstract in status %q cannot receive a final version", abstract.Status))
	}

	if err := r.ParseMultipartForm(maxFinalVersionBytes); err != nil {
		return webutil.ErrBadRequest("Invalid multipart payload: " + err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return webutil.ErrBadRequest("A 'file' form field with the final PDF is required")
	}
	defer file.Close()

	if header.Size > maxFinalVersionBytes {
		return webutil.ErrBadRequest("Final version file is too large")
	}

	content, err := io.ReadAll(io.LimitReader(file, maxFinalVersionBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read uploaded file for abstract %s: %w", abstractID, err)
	}
	if len(content) == 0 {
		return webutil.ErrBadRequest("Uploaded file is empty")
	}

	storagePath := fmt.Sprintf("final-versions/%s.pdf", abstractID)
	storedPath, err := h.Storer.Store(r.Context(), storagePath, content)
	if err != nil {
		return fmt.Errorf("failed to store final version for abstract %s: %w", abstractID, err)
	}

	actorID := r.FormValue("actor_id")
	updated, err := h.ReviewService.AttachFinalVersion(r.Context(), abstractID, actorID, storedPath, webutil.HashBytes(content))
	if err != nil {
		return mapReviewError(err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, updated)
	return nil
}

// HandleGetTransitions returns the audit trail for an abstract, newest first.
func (h *AbstractHandler) HandleGetTransitions(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	transitions, err := h.ReviewService.Transitions(r.Context(), abstractID)
	if err != nil {
		return fmt.Errorf("failed to retrieve transitions for abstract %s: %w", abstractID, err)
	}
	if transitions == nil {
		transitions = []models.StatusTransition{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, transitions)
	return nil
}

type adminNotesRequest struct {
	Notes string `json:"notes"`
}

// HandleUpdateAdminNotes sets the reviewer's internal notes on an abstract.
func (h *AbstractHandler) HandleUpdateAdminNotes(w http.ResponseWriter, r *http.Request) error {
	abstractID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(abstractID); err != nil {
		return webutil.ErrBadRequest("Invalid abstract ID format")
	}

	var req adminNotesRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if err := h.Repo.UpdateAbstractAdminNotes(r.Context(), abstractID, req.Notes); err != nil {
		return fmt.Errorf("failed to update admin notes for abstract %s: %w", abstractID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// mapReviewError translates review service failures into HTTP errors:
// illegal transitions are unprocessable, lost version races are conflicts.
func mapReviewError(err error) error {
	var invalid *review.InvalidTransitionError
	if errors.As(err, &invalid) {
		return webutil.ErrUnprocessableEntity(invalid.Error())
	}
	if errors.Is(err, datastore.ErrVersionConflict) {
		return webutil.ErrConflict("Abstract was modified concurrently; reload and retry")
	}
	return err
}
