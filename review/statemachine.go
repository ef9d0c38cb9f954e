// Package review holds the abstract review workflow: the single transition
// table that every surface consults, and the service that applies guarded
// status changes with an append-only audit trail.
package review

import "github.com/opencongress/congresso/models"

// transitionTable is the one authoritative map of legal status moves.
// Reviewer surfaces render actions from it and the service enforces it on
// every write, so no client can push an abstract through an illegal move.
var transitionTable = map[models.AbstractStatus][]models.AbstractStatus{
	models.AbstractStatusDraft:     {models.AbstractStatusReviewing},
	models.AbstractStatusSubmitted: {models.AbstractStatusReviewing},
	models.AbstractStatusReviewing: {
		models.AbstractStatusApproved,
		models.AbstractStatusRejected,
		models.AbstractStatusTypeChange,
	},
	models.AbstractStatusApproved: {
		models.AbstractStatusReviewing,
		models.AbstractStatusFinalVersion,
	},
	models.AbstractStatusRejected:     {models.AbstractStatusReviewing},
	models.AbstractStatusTypeChange:   {models.AbstractStatusReviewing},
	models.AbstractStatusFinalVersion: {},
}

// AllowedTransitions returns the statuses an abstract in the given status
// may legally move to. The returned slice is a copy.
func AllowedTransitions(from models.AbstractStatus) []models.AbstractStatus {
	targets, ok := transitionTable[from]
	if !ok {
		return []models.AbstractStatus{}
	}
	out := make([]models.AbstractStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether moving an abstract from one status to
// another is legal.
func CanTransition(from, to models.AbstractStatus) bool {
	for _, t := range transitionTable[from] {
		if t == to {
			return true
		}
	}
	return false
}
