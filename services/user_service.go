package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"task-manager/backend/apperrors"
	"task-manager/backend/logging"
	"task-manager/backend/models"
	"task-manager/backend/utils"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	UserCollection     *mongo.Collection
	TasksCollection    *mongo.Collection
	RequestsCollection *mongo.Collection
	HTTPClient         *http.Client
	GoogleBreaker      *gobreaker.CircuitBreaker
}

func NewUserService(
	userCollection *mongo.Collection,
	tasksCollection *mongo.Collection,
	requestsCollection *mongo.Collection,
	httpClient *http.Client,
	googleBreaker *gobreaker.CircuitBreaker,
) *UserService {
	return &UserService{
		UserCollection:     userCollection,
		TasksCollection:    tasksCollection,
		RequestsCollection: requestsCollection,
		HTTPClient:         httpClient,
		GoogleBreaker:      googleBreaker,
	}
}

type SignUpInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ValidateSignUp checks the required signup fields.
func ValidateSignUp(input SignUpInput) error {
	if strings.TrimSpace(input.FirstName) == "" {
		return fmt.Errorf("%w: firstName is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.LastName) == "" {
		return fmt.Errorf("%w: lastName is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.Email) == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if len(input.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, input SignUpInput) (*models.User, string, error) {
	if err := ValidateSignUp(input); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	count, err := s.UserCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if count > 0 {
		return nil, "", fmt.Errorf("%w: email already registered", apperrors.ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to hash password: %v", apperrors.ErrStorage, err)
	}

	now := time.Now()
	user := &models.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.UserCollection.InsertOne(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to generate token: %v", apperrors.ErrStorage, err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with email %s", user.ID.Hex(), user.Email)
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", fmt.Errorf("%w: unknown email or password", apperrors.ErrUnauthenticated)
		}
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if user.Password == "" {
		return nil, "", fmt.Errorf("%w: account has no password, use Google sign-in", apperrors.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: unknown email or password", apperrors.ErrUnauthenticated)
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to generate token: %v", apperrors.ErrStorage, err)
	}

	return &user, token, nil
}

// GoogleLogin verifies a Google ID token (through the circuit breaker) and
// signs the matching user in, creating the account on first contact.
func (s *UserService) GoogleLogin(ctx context.Context, idToken string) (*models.User, string, error) {
	verified, err := s.GoogleBreaker.Execute(func() (interface{}, error) {
		return utils.VerifyGoogleIDToken(s.HTTPClient, idToken)
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: google verification failed: %v", apperrors.ErrUnauthenticated, err)
	}
	info := verified.(*utils.GoogleTokenInfo)

	email := strings.ToLower(info.Email)
	now := time.Now()

	var user models.User
	err = s.UserCollection.FindOne(ctx, bson.M{"googleId": info.Sub}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		// Attach the Google identity to an existing email account, or
		// create a fresh one.
		err = s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			user = models.User{
				FirstName:  info.GivenName,
				LastName:   info.FamilyName,
				Email:      email,
				GoogleID:   info.Sub,
				ProfilePic: info.Picture,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			result, err := s.UserCollection.InsertOne(ctx, &user)
			if err != nil {
				return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
			}
			user.ID = result.InsertedID.(primitive.ObjectID)
		} else if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
		} else {
			update := bson.M{"$set": bson.M{"googleId": info.Sub, "updatedAt": now}}
			if _, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
				return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
			}
			user.GoogleID = info.Sub
		}
	} else if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to generate token: %v", apperrors.ErrStorage, err)
	}

	logging.Logger.Infof("Event ID: GOOGLE_LOGIN, Description: User %s signed in via Google", user.ID.Hex())
	return &user, token, nil
}

// SetUsername claims a username for userID. The claim is one-time; a user
// that already has a username cannot change it here.
func (s *UserService) SetUsername(ctx context.Context, userID primitive.ObjectID, username string) (*models.User, error) {
	if !models.ValidUsername(username) {
		return nil, fmt.Errorf("%w: username must be 1-20 letters, digits, '.' or '_'", apperrors.ErrValidation)
	}

	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if user.Username != "" {
		return nil, fmt.Errorf("%w: username already set", apperrors.ErrInvalidState)
	}

	count, err := s.UserCollection.CountDocuments(ctx, bson.M{"username": username, "_id": bson.M{"$ne": userID}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: username already taken", apperrors.ErrValidation)
	}

	update := bson.M{"$set": bson.M{"username": username, "updatedAt": time.Now()}}
	if _, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	user.Username = username
	logging.Logger.Infof("Event ID: USERNAME_SET, Description: User %s claimed username %s", userID.Hex(), username)
	return &user, nil
}

func (s *UserService) GetUserInfo(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return &user, nil
}

// SearchUsernames finds up to five users whose username starts with q,
// case-insensitively.
func (s *UserService) SearchUsernames(ctx context.Context, q string) ([]models.PublicProfile, error) {
	if q == "" {
		return []models.PublicProfile{}, nil
	}

	filter := bson.M{"username": bson.M{"$regex": "^" + regexp.QuoteMeta(q), "$options": "i"}}
	findOptions := options.Find().SetLimit(5)

	cursor, err := s.UserCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Public())
	}
	return profiles, nil
}

func (s *UserService) SetProfilePicture(ctx context.Context, userID primitive.ObjectID, fileURL string) error {
	update := bson.M{"$set": bson.M{"profilePic": fileURL, "updatedAt": time.Now()}}
	result, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID.Hex())
	}
	return nil
}

// DeleteAccount removes the user and everything hanging off them: tasks
// they created, their entries in other users' assignment lists, and friend
// requests in both directions.
func (s *UserService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	result, err := s.UserCollection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID.Hex())
	}

	if _, err := s.TasksCollection.DeleteMany(ctx, bson.M{"createdBy": userID}); err != nil {
		return fmt.Errorf("%w: failed to delete owned tasks: %v", apperrors.ErrStorage, err)
	}

	pull := bson.M{"$pull": bson.M{"assignedTo": userID}}
	if _, err := s.TasksCollection.UpdateMany(ctx, bson.M{"assignedTo": userID}, pull); err != nil {
		return fmt.Errorf("%w: failed to unassign user from tasks: %v", apperrors.ErrStorage, err)
	}

	requestFilter := bson.M{"$or": bson.A{bson.M{"from": userID}, bson.M{"to": userID}}}
	if _, err := s.RequestsCollection.DeleteMany(ctx, requestFilter); err != nil {
		return fmt.Errorf("%w: failed to delete friend requests: %v", apperrors.ErrStorage, err)
	}

	logging.Logger.Infof("Event ID: ACCOUNT_DELETED, Description: User %s and related records deleted", userID.Hex())
	return nil
}
