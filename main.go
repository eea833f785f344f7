package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"task-manager/backend/handlers"
	"task-manager/backend/logging"
	"task-manager/backend/middleware"
	"task-manager/backend/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ensureIndexes(ctx context.Context, users *mongo.Collection) error {
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"username": bson.M{"$exists": true, "$type": "string"}},
			),
		},
	})
	return err
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Task Manager backend...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "task_manager"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	userCollection := db.Collection("users")
	requestsCollection := db.Collection("friend_requests")
	tasksCollection := db.Collection("tasks")

	if err := ensureIndexes(ctx, userCollection); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to create indexes: %v", err)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	googleBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GoogleTokenInfoCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	userService := services.NewUserService(userCollection, tasksCollection, requestsCollection, httpClient, googleBreaker)
	friendService := services.NewFriendService(requestsCollection, userCollection)
	taskService := services.NewTaskService(tasksCollection, userCollection)

	userHandler := handlers.NewUserHandler(userService)
	friendHandler := handlers.NewFriendHandler(friendService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/signup", userHandler.SignUp).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", userHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/google", userHandler.GoogleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", userHandler.Logout).Methods(http.MethodPost)
	r.HandleFunc("/api/users/search", userHandler.SearchUsernames).Methods(http.MethodGet)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(middleware.JWTAuthMiddleware)

	authed.HandleFunc("/users/me", userHandler.UserInfo).Methods(http.MethodGet)
	authed.HandleFunc("/users/me", userHandler.DeleteAccount).Methods(http.MethodDelete)
	authed.HandleFunc("/users/username", userHandler.SetUsername).Methods(http.MethodPost)
	authed.HandleFunc("/users/profile-pic", userHandler.UploadProfilePic).Methods(http.MethodPost)

	authed.HandleFunc("/invites", friendHandler.SendInvite).Methods(http.MethodPost)
	authed.HandleFunc("/invites", friendHandler.ListIncoming).Methods(http.MethodGet)
	authed.HandleFunc("/invites/{id}/accept", friendHandler.AcceptInvite).Methods(http.MethodPost)
	authed.HandleFunc("/invites/{id}/reject", friendHandler.RejectInvite).Methods(http.MethodPost)
	authed.HandleFunc("/collaborators", friendHandler.Collaborators).Methods(http.MethodGet)

	authed.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks", taskHandler.ListTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id}/complete", taskHandler.CompleteTask).Methods(http.MethodPatch)
	authed.HandleFunc("/tasks/{id}/reopen", taskHandler.ReopenTask).Methods(http.MethodPatch)
	authed.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "5000"
	}
	serverAddress := fmt.Sprintf(":%s", serverPort)

	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      enableCORS(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
