package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// NormalizePriority coerces absent or unknown values to Low.
func NormalizePriority(p TaskPriority) TaskPriority {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityLow
	}
}

// Rank orders priorities for sorting: High 3, Medium 2, Low 1.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     time.Time            `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Priority    TaskPriority         `bson:"priority" json:"priority"`
	IsCompleted bool                 `bson:"isCompleted" json:"isCompleted"`
	AssignedTo  []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	CreatedBy   primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// TaskWithAssignees is a task joined with the public profiles of the users
// in its assignment list.
type TaskWithAssignees struct {
	Task      `bson:",inline"`
	Assignees []PublicProfile `json:"assignees"`
}
