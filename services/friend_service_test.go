package services

import (
	"errors"
	"testing"

	"task-manager/backend/apperrors"
	"task-manager/backend/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairFilterMatchesBothDirections(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	filter := PairFilter(a, b)
	or, ok := filter["$or"].(bson.A)
	assert.True(t, ok)
	assert.Len(t, or, 2)

	assert.Contains(t, or, bson.M{"from": a, "to": b})
	assert.Contains(t, or, bson.M{"from": b, "to": a})
}

func TestDeriveCollaboratorIDsSymmetry(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	requests := []models.FriendRequest{
		{From: a, To: b, Status: models.RequestAccepted},
	}

	assert.Equal(t, []primitive.ObjectID{b}, DeriveCollaboratorIDs(requests, a))
	assert.Equal(t, []primitive.ObjectID{a}, DeriveCollaboratorIDs(requests, b))
}

func TestDeriveCollaboratorIDsSkipsNonAccepted(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	requests := []models.FriendRequest{
		{From: a, To: b, Status: models.RequestPending},
		{From: c, To: a, Status: models.RequestRejected},
	}

	assert.Empty(t, DeriveCollaboratorIDs(requests, a))
}

func TestDeriveCollaboratorIDsDeduplicates(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	// Both directions accepted for the same pair (legacy data from before
	// the unordered-pair uniqueness check) plus a second collaborator.
	requests := []models.FriendRequest{
		{From: a, To: b, Status: models.RequestAccepted},
		{From: b, To: a, Status: models.RequestAccepted},
		{From: c, To: a, Status: models.RequestAccepted},
	}

	assert.Equal(t, []primitive.ObjectID{b, c}, DeriveCollaboratorIDs(requests, a))
}

func TestTransitionErrorDisambiguation(t *testing.T) {
	id := primitive.NewObjectID()

	// Unknown request id.
	err := TransitionError(id, false)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// The request exists but already left pending: accepting it a second
	// time must be refused, not repeated.
	err = TransitionError(id, true)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestOtherParty(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	r := models.FriendRequest{From: a, To: b}

	assert.Equal(t, b, r.OtherParty(a))
	assert.Equal(t, a, r.OtherParty(b))
}
