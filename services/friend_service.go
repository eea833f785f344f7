package services

import (
	"context"
	"fmt"
	"time"

	"task-manager/backend/apperrors"
	"task-manager/backend/logging"
	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendService is the collaboration ledger: it owns the friend-request
// state machine and derives collaborator sets from accepted requests.
type FriendService struct {
	RequestsCollection *mongo.Collection
	UserCollection     *mongo.Collection
}

func NewFriendService(requestsCollection, userCollection *mongo.Collection) *FriendService {
	return &FriendService{
		RequestsCollection: requestsCollection,
		UserCollection:     userCollection,
	}
}

// PairFilter matches any friend request between a and b, in either
// direction. Uniqueness is per unordered pair: a reverse invite while a
// request already exists is refused.
func PairFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"from": a, "to": b},
			bson.M{"from": b, "to": a},
		},
	}
}

// DeriveCollaboratorIDs maps each accepted request to the party opposite
// userID, deduplicated by id, in input order.
func DeriveCollaboratorIDs(requests []models.FriendRequest, userID primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, r := range requests {
		if r.Status != models.RequestAccepted {
			continue
		}
		other := r.OtherParty(userID)
		if other == userID || seen[other] {
			continue
		}
		seen[other] = true
		ids = append(ids, other)
	}
	return ids
}

func (s *FriendService) SendInvite(ctx context.Context, fromID primitive.ObjectID, toUsername string) (*models.FriendRequest, error) {
	if toUsername == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}

	var toUser models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"username": toUsername}).Decode(&toUser); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user %q", apperrors.ErrNotFound, toUsername)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if toUser.ID == fromID {
		return nil, fmt.Errorf("%w: cannot invite yourself", apperrors.ErrValidation)
	}

	count, err := s.RequestsCollection.CountDocuments(ctx, PairFilter(fromID, toUser.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: between these users", apperrors.ErrDuplicateRequest)
	}

	now := time.Now()
	request := &models.FriendRequest{
		From:      fromID,
		To:        toUser.ID,
		Status:    models.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.RequestsCollection.InsertOne(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	request.ID = result.InsertedID.(primitive.ObjectID)

	logging.Logger.Infof("Event ID: INVITE_SENT, Description: Invite %s sent from %s to %s", request.ID.Hex(), fromID.Hex(), toUser.ID.Hex())
	return request, nil
}

// ListIncoming returns the requests addressed to userID, in insertion
// order, joined with the sender's public profile.
func (s *FriendService) ListIncoming(ctx context.Context, userID primitive.ObjectID) ([]models.IncomingInvite, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.RequestsCollection.Find(ctx, bson.M{"to": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	senderIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, r := range requests {
		senderIDs = append(senderIDs, r.From)
	}

	profiles, err := s.lookupProfiles(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	invites := make([]models.IncomingInvite, 0, len(requests))
	for _, r := range requests {
		invite := models.IncomingInvite{
			ID:        r.ID,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}
		if sender, ok := profiles[r.From]; ok {
			invite.FromUsername = sender.Username
			invite.FromProfilePic = sender.ProfilePic
		}
		invites = append(invites, invite)
	}
	return invites, nil
}

// TransitionError classifies a pending-transition update that matched no
// document: the request is absent, or it already left pending. Re-responding
// to a resolved request is refused, never silently repeated.
func TransitionError(requestID primitive.ObjectID, exists bool) error {
	if !exists {
		return fmt.Errorf("%w: request %s", apperrors.ErrNotFound, requestID.Hex())
	}
	return fmt.Errorf("%w: request %s is not pending", apperrors.ErrInvalidState, requestID.Hex())
}

func (s *FriendService) Accept(ctx context.Context, requestID primitive.ObjectID) (*models.FriendRequest, error) {
	return s.respond(ctx, requestID, models.RequestAccepted)
}

func (s *FriendService) Reject(ctx context.Context, requestID primitive.ObjectID) (*models.FriendRequest, error) {
	return s.respond(ctx, requestID, models.RequestRejected)
}

// respond performs the pending -> accepted/rejected transition as one
// conditional update, so two concurrent responses cannot both succeed.
func (s *FriendService) respond(ctx context.Context, requestID primitive.ObjectID, status models.FriendRequestStatus) (*models.FriendRequest, error) {
	filter := bson.M{"_id": requestID, "status": models.RequestPending}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}

	result, err := s.RequestsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if result.MatchedCount == 0 {
		// Either the request does not exist or it already left pending.
		count, cErr := s.RequestsCollection.CountDocuments(ctx, bson.M{"_id": requestID})
		if cErr != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, cErr)
		}
		return nil, TransitionError(requestID, count > 0)
	}

	var request models.FriendRequest
	if err := s.RequestsCollection.FindOne(ctx, bson.M{"_id": requestID}).Decode(&request); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	logging.Logger.Infof("Event ID: INVITE_STATUS_CHANGED, Description: Request %s moved to %s", requestID.Hex(), status)
	return &request, nil
}

// Collaborators returns the public profiles of everyone userID shares an
// accepted request with, deduplicated by id.
func (s *FriendService) Collaborators(ctx context.Context, userID primitive.ObjectID) ([]models.PublicProfile, error) {
	filter := bson.M{
		"status": models.RequestAccepted,
		"$or": bson.A{
			bson.M{"from": userID},
			bson.M{"to": userID},
		},
	}

	cursor, err := s.RequestsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	ids := DeriveCollaboratorIDs(requests, userID)
	profiles, err := s.lookupProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	collaborators := make([]models.PublicProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			collaborators = append(collaborators, p)
		}
	}
	return collaborators, nil
}

// lookupProfiles fetches the public projection for a set of user ids.
func (s *FriendService) lookupProfiles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PublicProfile, error) {
	profiles := make(map[primitive.ObjectID]models.PublicProfile)
	if len(ids) == 0 {
		return profiles, nil
	}

	cursor, err := s.UserCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	for _, u := range users {
		profiles[u.ID] = u.Public()
	}
	return profiles, nil
}
