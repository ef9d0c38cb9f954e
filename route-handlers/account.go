package routehandlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/opencongress/congresso/datastore"
	"github.com/opencongress/congresso/models"
	"github.com/opencongress/congresso/webutil"
)

type AccountHandler struct {
	Repo *datastore.AccountRepository
}

func NewAccountHandler(repo *datastore.AccountRepository) *AccountHandler {
	return &AccountHandler{Repo: repo}
}

type createAccountRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

type updateAccountRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

// accountResponse surfaces profile completeness alongside the account so
// the client knows whether submission is gated.
type accountResponse struct {
	models.Account
	ProfileComplete bool `json:"profile_complete"`
}

func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) error {
	var req createAccountRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Email == "" {
		return webutil.ErrBadRequest("Email is required")
	}

	now := time.Now().UTC()
	account := models.Account{
		ID:          uuid.NewString(),
		Email:       req.Email,
		Name:        req.Name,
		Surname:     req.Surname,
		Phone:       req.Phone,
		Institution: req.Institution,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Repo.CreateAccount(r.Context(), &account); err != nil {
		return fmt.Errorf("failed to create account for %s: %w", req.Email, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, accountResponse{Account: account, ProfileComplete: account.IsProfileComplete()})
	return nil
}

func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) error {
	accountID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(accountID); err != nil {
		return webutil.ErrBadRequest("Invalid account ID format")
	}

	account, err := h.Repo.GetAccountByID(r.Context(), accountID)
	if err != nil {
		return fmt.Errorf("failed to retrieve account %s: %w", accountID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, accountResponse{Account: *account, ProfileComplete: account.IsProfileComplete()})
	return nil
}

func (h *AccountHandler) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) error {
	accountID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(accountID); err != nil {
		return webutil.ErrBadRequest("Invalid account ID format")
	}

	var req updateAccountRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	account, err := h.Repo.GetAccountByID(r.Context(), accountID)
	if err != nil {
		return fmt.Errorf("failed to retrieve account %s: %w", accountID, err)
	}

	account.Name = req.Name
	account.Surname = req.Surname
	account.Phone = req.Phone
	account.Institution = req.Institution

	if err := h.Repo.UpdateAccountProfile(r.Context(), account); err != nil {
		return fmt.Errorf("failed to update account %s: %w", accountID, err)
	}

	account.UpdatedAt = time.Now().UTC()
	webutil.RespondWithJSON(w, http.StatusOK, accountResponse{Account: *account, ProfileComplete: account.IsProfileComplete()})
	return nil
}
