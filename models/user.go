package models

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName  string             `bson:"firstName" json:"firstName"`
	LastName   string             `bson:"lastName" json:"lastName"`
	Username   string             `bson:"username,omitempty" json:"username,omitempty"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password,omitempty" json:"-"`
	GoogleID   string             `bson:"googleId,omitempty" json:"-"`
	ProfilePic string             `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicProfile is the projection of a user that other users may see.
// Password and email never travel through it.
type PublicProfile struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Username   string             `bson:"username,omitempty" json:"username"`
	ProfilePic string             `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
}

func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
	}
}

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._]{1,20}$`)

// ValidUsername reports whether name is usable as a username: letters,
// digits, '.' and '_' only, at most 20 characters, no whitespace.
func ValidUsername(name string) bool {
	return usernameRegex.MatchString(name)
}
