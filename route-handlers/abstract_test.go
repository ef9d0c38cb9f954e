package routehandlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/opencongress/congresso/models"
	"github.com/opencongress/congresso/review"
	"github.com/opencongress/congresso/webutil"
)

type fakeAbstractStore struct {
	abstract   *models.Abstract
	finalPath  string
	finalHash  string
	statusSets []models.AbstractStatus
}

func (f *fakeAbstractStore) CreateAbstract(_ context.Context, _ *models.Abstract) error { return nil }

func (f *fakeAbstractStore) GetAbstractByID(_ context.Context, _ string) (*models.Abstract, error) {
	a := *f.abstract
	return &a, nil
}

func (f *fakeAbstractStore) GetAbstractsByAccountID(_ context.Context, _ string) ([]models.Abstract, error) {
	return nil, nil
}

func (f *fakeAbstractStore) GetAbstractsByStatus(_ context.Context, _ models.AbstractStatus) ([]models.Abstract, error) {
	return nil, nil
}

func (f *fakeAbstractStore) GetAllAbstracts(_ context.Context) ([]models.Abstract, error) {
	return nil, nil
}

func (f *fakeAbstractStore) UpdateAbstractContent(_ context.Context, _ *models.Abstract, _ int) error {
	return nil
}

func (f *fakeAbstractStore) UpdateAbstractStatus(_ context.Context, _ string, status models.AbstractStatus, _ int) error {
	f.statusSets = append(f.statusSets, status)
	return nil
}

func (f *fakeAbstractStore) UpdateAbstractTypeAndStatus(_ context.Context, _ string, _ models.AbstractType, _ models.AbstractStatus, _ int) error {
	return nil
}

func (f *fakeAbstractStore) SetAbstractFinalVersion(_ context.Context, _ string, filePath, fileHash string, _ int) error {
	f.finalPath = filePath
	f.finalHash = fileHash
	return nil
}

func (f *fakeAbstractStore) UpdateAbstractAdminNotes(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeAbstractStore) DeleteDraftAbstract(_ context.Context, _ string) error { return nil }

type fakeUploadStorer struct {
	stored map[string][]byte
}

func (f *fakeUploadStorer) Store(_ context.Context, path string, content []byte) (string, error) {
	if f.stored == nil {
		f.stored = make(map[string][]byte)
	}
	f.stored[path] = content
	return path, nil
}

func (f *fakeUploadStorer) Fetch(_ context.Context, _ string) ([]byte, error) { return nil, nil }

func (f *fakeUploadStorer) Exists(_ context.Context, _ string) (bool, error) { return false, nil }

func (f *fakeUploadStorer) List(_ context.Context, _ string) ([]string, error) { return nil, nil }

type fakeTransitionStore struct{}

func (fakeTransitionStore) CreateStatusTransition(_ context.Context, _ *models.StatusTransition) error {
	return nil
}

func (fakeTransitionStore) GetTransitionsByAbstractID(_ context.Context, _ string) ([]models.StatusTransition, error) {
	return nil, nil
}

const testAbstractID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

func newUploadRouter(store *fakeAbstractStore, storer *fakeUploadStorer) chi.Router {
	reviewService := review.NewService(store, fakeTransitionStore{}, nil)
	handler := NewAbstractHandler(store, nil, reviewService, storer)

	r := chi.NewRouter()
	r.Post("/abstracts/{id}/final-version", webutil.MakeHandler(handler.HandleUploadFinalVersion))
	return r
}

func multipartUpload(t *testing.T, url string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "final.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadFinalVersionApproved(t *testing.T) {
	store := &fakeAbstractStore{abstract: &models.Abstract{
		ID:      testAbstractID,
		Status:  models.AbstractStatusApproved,
		Version: 2,
	}}
	storer := &fakeUploadStorer{}
	router := newUploadRouter(store, storer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/abstracts/"+testAbstractID+"/final-version", []byte("%PDF-1.7 final")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	wantPath := "final-versions/" + testAbstractID + ".pdf"
	if _, ok := storer.stored[wantPath]; !ok {
		t.Errorf("final version not stored at %s", wantPath)
	}
	if store.finalPath != wantPath {
		t.Errorf("recorded path = %q, want %q", store.finalPath, wantPath)
	}
	if store.finalHash == "" {
		t.Error("content hash not recorded")
	}
}

func TestUploadFinalVersionRejectedBeforeStorage(t *testing.T) {
	statuses := []models.AbstractStatus{
		models.AbstractStatusSubmitted,
		models.AbstractStatusReviewing,
		models.AbstractStatusRejected,
		models.AbstractStatusFinalVersion,
	}

	for _, status := range statuses {
		store := &fakeAbstractStore{abstract: &models.Abstract{
			ID:      testAbstractID,
			Status:  status,
			Version: 1,
		}}
		storer := &fakeUploadStorer{}
		router := newUploadRouter(store, storer)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, multipartUpload(t, "/abstracts/"+testAbstractID+"/final-version", []byte("%PDF-1.7 final")))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status %s: code = %d, want 422", status, rec.Code)
		}
		if len(storer.stored) != 0 {
			t.Errorf("status %s: upload must not be stored when the transition is illegal", status)
		}
		if store.finalPath != "" {
			t.Errorf("status %s: final version must not be recorded", status)
		}
	}
}
