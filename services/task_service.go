package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"task-manager/backend/apperrors"
	"task-manager/backend/logging"
	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskService struct {
	TasksCollection *mongo.Collection
	UserCollection  *mongo.Collection
}

func NewTaskService(tasksCollection, userCollection *mongo.Collection) *TaskService {
	return &TaskService{
		TasksCollection: tasksCollection,
		UserCollection:  userCollection,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    models.TaskPriority
	AssignedTo  []primitive.ObjectID
	CreatedBy   primitive.ObjectID
}

// ValidateCreateTask checks the required fields of a new task.
func ValidateCreateTask(input CreateTaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if input.CreatedBy.IsZero() {
		return fmt.Errorf("%w: createdBy is required", apperrors.ErrValidation)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if err := ValidateCreateTask(input); err != nil {
		return nil, err
	}

	assignedTo := input.AssignedTo
	if assignedTo == nil {
		assignedTo = []primitive.ObjectID{}
	}

	now := time.Now()
	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    models.NormalizePriority(input.Priority),
		AssignedTo:  assignedTo,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.TasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", task.ID.Hex(), input.CreatedBy.Hex())
	return task, nil
}

// ListCreatedBy returns the tasks userID created, in insertion order, with
// each assignee resolved to a public profile.
func (s *TaskService) ListCreatedBy(ctx context.Context, userID primitive.ObjectID) ([]models.TaskWithAssignees, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"createdBy": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	var assigneeIDs []primitive.ObjectID
	for _, t := range tasks {
		assigneeIDs = append(assigneeIDs, t.AssignedTo...)
	}

	profiles, err := s.lookupProfiles(ctx, assigneeIDs)
	if err != nil {
		return nil, err
	}

	joined := make([]models.TaskWithAssignees, 0, len(tasks))
	for _, t := range tasks {
		entry := models.TaskWithAssignees{Task: t, Assignees: []models.PublicProfile{}}
		for _, id := range t.AssignedTo {
			if p, ok := profiles[id]; ok {
				entry.Assignees = append(entry.Assignees, p)
			}
		}
		joined = append(joined, entry)
	}
	return joined, nil
}

// MarkCompleted flips a task to completed. Completing an already completed
// task is not an error; the current document comes back unchanged.
func (s *TaskService) MarkCompleted(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	return s.setCompleted(ctx, taskID, true)
}

// ReopenTask is the inverse of MarkCompleted, with the same idempotence.
func (s *TaskService) ReopenTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	return s.setCompleted(ctx, taskID, false)
}

// CompletionOutcome maps the post-update lookup to the operation's result:
// a missing task is NotFound; a task already in the requested state comes
// back unchanged, not as an error.
func CompletionOutcome(taskID primitive.ObjectID, task *models.Task, found bool) (*models.Task, error) {
	if !found {
		return nil, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID.Hex())
	}
	return task, nil
}

func (s *TaskService) setCompleted(ctx context.Context, taskID primitive.ObjectID, completed bool) (*models.Task, error) {
	filter := bson.M{"_id": taskID, "isCompleted": !completed}
	update := bson.M{"$set": bson.M{"isCompleted": completed, "updatedAt": time.Now()}}

	result, err := s.TasksCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return CompletionOutcome(taskID, nil, false)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if result.ModifiedCount > 0 {
		logging.Logger.Infof("Event ID: TASK_COMPLETION_CHANGED, Description: Task %s isCompleted=%t", taskID.Hex(), completed)
	}
	return CompletionOutcome(taskID, &task, true)
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	result, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID.Hex())
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID.Hex())
	return nil
}

func (s *TaskService) lookupProfiles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PublicProfile, error) {
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
