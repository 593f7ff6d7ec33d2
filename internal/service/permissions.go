package service

import (
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
)

// Action is the closed set of things an actor can do to a resource.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Allow decides whether an actor may perform an action on a resource owned by
// ownerID. It is evaluated before any mutation is attempted; a nil actor is
// anonymous.
func Allow(actor *models.User, action Action, ownerID uuid.UUID) bool {
	switch action {
	case ActionRead:
		return true
	case ActionCreate:
		return actor != nil
	case ActionUpdate, ActionDelete:
		if actor == nil {
			return false
		}
		return actor.IsAdmin || actor.ID == ownerID
	}
	return false
}
