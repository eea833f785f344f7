// Package views classifies task snapshots for display. Everything here is
// a pure function of its inputs; nothing reads the database or the clock.
package views

import (
	"sort"
	"time"

	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SortMode string

const (
	SortNone       SortMode = ""
	SortByPriority SortMode = "priority"
	SortByDueDate  SortMode = "dueDate"
)

type FilterMode string

const (
	FilterAll    FilterMode = ""
	FilterMine   FilterMode = "mine"
	FilterShared FilterMode = "shared"
)

type Bucket string

const (
	BucketPending   Bucket = "Pending"
	BucketCompleted Bucket = "Completed"
	BucketOverdue   Bucket = "Overdue"
)

// Classified is the final shape handed to the client: the three status
// buckets, each independently sorted and filtered.
type Classified struct {
	Pending   []models.TaskWithAssignees `json:"pending"`
	Completed []models.TaskWithAssignees `json:"completed"`
	Overdue   []models.TaskWithAssignees `json:"overdue"`
}

// SortTasks returns a sorted copy of tasks. Both modes are stable, so
// ties keep their input order.
func SortTasks(tasks []models.TaskWithAssignees, mode SortMode) []models.TaskWithAssignees {
	sorted := make([]models.TaskWithAssignees, len(tasks))
	copy(sorted, tasks)

	switch mode {
	case SortByPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority.Rank() > sorted[j].Priority.Rank()
		})
	case SortByDueDate:
		// Tasks without a due date sort after dated ones.
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].DueDate.IsZero() {
				return false
			}
			if sorted[j].DueDate.IsZero() {
				return true
			}
			return sorted[i].DueDate.Before(sorted[j].DueDate)
		})
	}

	return sorted
}

// IsMine reports whether a task belongs to the viewer's personal list:
// assigned to exactly the viewer, or not assigned to anyone (a task with
// no assignees is only ever visible to its creator).
func IsMine(t models.Task, viewer primitive.ObjectID) bool {
	if len(t.AssignedTo) == 0 {
		return true
	}
	return len(t.AssignedTo) == 1 && t.AssignedTo[0] == viewer
}

// FilterTasks keeps the tasks matching mode from the viewer's standpoint.
// Unrecognized modes behave like FilterAll.
func FilterTasks(tasks []models.TaskWithAssignees, viewer primitive.ObjectID, mode FilterMode) []models.TaskWithAssignees {
	if mode != FilterMine && mode != FilterShared {
		return tasks
	}

	filtered := make([]models.TaskWithAssignees, 0, len(tasks))
	for _, t := range tasks {
		mine := IsMine(t.Task, viewer)
		if (mode == FilterMine && mine) || (mode == FilterShared && !mine) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// StartOfDay truncates t to local midnight. Due-date comparisons are at
// day granularity.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BucketOf classifies a single task as of now. Completed tasks stay
// Completed whatever their date; a task without a due date never goes
// Overdue.
func BucketOf(t models.Task, now time.Time) Bucket {
	if t.IsCompleted {
		return BucketCompleted
	}
	if t.DueDate.IsZero() {
		return BucketPending
	}
	// BSON decoding leaves the due date in UTC; compare both days in
	// now's location so the day boundary is the same on both sides.
	due := t.DueDate.In(now.Location())
	if StartOfDay(due).Before(StartOfDay(now)) {
		return BucketOverdue
	}
	return BucketPending
}

// Classify runs the full pipeline: filter by ownership, sort, then split
// into status buckets. Splitting a sorted list keeps each bucket sorted.
func Classify(tasks []models.TaskWithAssignees, viewer primitive.ObjectID, sortMode SortMode, filterMode FilterMode, now time.Time) Classified {
	result := Classified{
		Pending:   []models.TaskWithAssignees{},
		Completed: []models.TaskWithAssignees{},
		Overdue:   []models.TaskWithAssignees{},
	}

	for _, t := range SortTasks(FilterTasks(tasks, viewer, filterMode), sortMode) {
		switch BucketOf(t.Task, now) {
		case BucketCompleted:
			result.Completed = append(result.Completed, t)
		case BucketOverdue:
			result.Overdue = append(result.Overdue, t)
		default:
			result.Pending = append(result.Pending, t)
		}
	}

	return result
}
