// Package webhooks receives event notifications from external systems.
// Storage object-created events let clients upload final versions straight
// to the bucket; the event drives the same review transition as the API
// upload endpoint.
package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/opencongress/congresso/review"
	"github.com/opencongress/congresso/storage"
	"github.com/opencongress/congresso/webutil"
)

const finalVersionPrefix = "final-versions/"

type StorageEventHandler struct {
	ReviewService *review.Service
	Storer        storage.ContentStorer
}

func NewStorageEventHandler(reviewService *review.Service, storer storage.ContentStorer) *StorageEventHandler {
	return &StorageEventHandler{ReviewService: reviewService, Storer: storer}
}

// storageEvent follows the S3 event notification shape: a list of records,
// each naming the object key that was created.
type storageEvent struct {
	Records []storageEventRecord `json:"Records"`
}

type storageEventRecord struct {
	EventName string `json:"eventName"`
	S3        struct {
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

func (h *StorageEventHandler) HandleObjectCreated(w http.ResponseWriter, r *http.Request) {
	var event storageEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		webutil.RespondWithError(w, http.StatusBadRequest, "Invalid event payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	processed := 0
	for _, record := range event.Records {
		if !strings.HasPrefix(record.EventName, "ObjectCreated") {
			continue
		}
		if err := h.processObject(r.Context(), record.S3.Object.Key); err != nil {
			log.Printf("ERROR (StorageEventHandler): Failed to process object %q: %v", record.S3.Object.Key, err)
			continue
		}
		processed++
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK: processed %d objects", processed)
}

// processObject handles one created object. Keys outside the final-version
// prefix are not ours and are skipped silently.
func (h *StorageEventHandler) processObject(ctx context.Context, rawKey string) error {
	abstractID, key, ok := parseFinalVersionKey(rawKey)
	if !ok {
		return nil
	}

	content, err := h.Storer.Fetch(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to fetch uploaded object: %w", err)
	}

	_, err = h.ReviewService.AttachFinalVersion(ctx, abstractID, "", key, webutil.HashBytes(content))
	if err != nil {
		// A duplicate event for an abstract already in final-version is
		// expected; other failures are real.
		var invalid *review.InvalidTransitionError
		if errors.As(err, &invalid) {
			log.Printf("WARN (StorageEventHandler): Skipping %q: %v", key, err)
			return nil
		}
		return err
	}

	log.Printf("INFO (StorageEventHandler): Attached final version %q to abstract %s", key, abstractID)
	return nil
}

// parseFinalVersionKey extracts the abstract ID from a key shaped like
// "final-versions/{abstractID}.pdf". S3 event notifications deliver keys
// URL-encoded (spaces arrive as "+"), so the key is decoded first; the
// decoded key is returned for storage lookups.
func parseFinalVersionKey(rawKey string) (abstractID, key string, ok bool) {
	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		return "", "", false
	}
	if !strings.HasPrefix(key, finalVersionPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(key, finalVersionPrefix)
	abstractID, isPDF := strings.CutSuffix(rest, ".pdf")
	if !isPDF || abstractID == "" || strings.Contains(abstractID, "/") {
		return "", "", false
	}
	return abstractID, key, true
}
