package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendRequestStatus string

const (
	RequestPending  FriendRequestStatus = "pending"
	RequestAccepted FriendRequestStatus = "accepted"
	RequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a directed edge between two users. Direction matters
// only while pending; an accepted request makes the two users
// collaborators of each other.
type FriendRequest struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	From      primitive.ObjectID  `bson:"from" json:"from"`
	To        primitive.ObjectID  `bson:"to" json:"to"`
	Status    FriendRequestStatus `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OtherParty returns the user on the far side of the request from userID.
func (r FriendRequest) OtherParty(userID primitive.ObjectID) primitive.ObjectID {
	if r.From == userID {
		return r.To
	}
	return r.From
}

// IncomingInvite is a friend request joined with the sender's public
// profile, as shown in the recipient's notification list.
type IncomingInvite struct {
	ID             primitive.ObjectID  `json:"id"`
	FromUsername   string              `json:"fromUsername"`
	FromProfilePic string              `json:"fromProfilePic,omitempty"`
	Status         FriendRequestStatus `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
}
