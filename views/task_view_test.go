package views

import (
	"testing"
	"time"

	"task-manager/backend/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func task(title string, priority models.TaskPriority, due time.Time, completed bool, assignedTo ...primitive.ObjectID) models.TaskWithAssignees {
	return models.TaskWithAssignees{
		Task: models.Task{
			ID:          primitive.NewObjectID(),
			Title:       title,
			Priority:    priority,
			DueDate:     due,
			IsCompleted: completed,
			AssignedTo:  assignedTo,
		},
	}
}

func titles(tasks []models.TaskWithAssignees) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestSortByPriorityIsStable(t *testing.T) {
	tasks := []models.TaskWithAssignees{
		task("first-high", models.PriorityHigh, time.Time{}, false),
		task("low", models.PriorityLow, time.Time{}, false),
		task("second-high", models.PriorityHigh, time.Time{}, false),
		task("medium", models.PriorityMedium, time.Time{}, false),
	}

	sorted := SortTasks(tasks, SortByPriority)

	assert.Equal(t, []string{"first-high", "second-high", "medium", "low"}, titles(sorted))
	// Input untouched.
	assert.Equal(t, "first-high", tasks[0].Title)
	assert.Equal(t, "low", tasks[1].Title)
}

func TestSortByDueDateAscendingWithUndatedLast(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 15, 30, 0, 0, time.UTC) }

	tasks := []models.TaskWithAssignees{
		task("undated", models.PriorityLow, time.Time{}, false),
		task("later", models.PriorityLow, day(20), false),
		task("sooner", models.PriorityLow, day(5), false),
		task("also-later", models.PriorityLow, day(20), false),
	}

	sorted := SortTasks(tasks, SortByDueDate)

	assert.Equal(t, []string{"sooner", "later", "also-later", "undated"}, titles(sorted))
}

func TestSortNoneKeepsInputOrder(t *testing.T) {
	tasks := []models.TaskWithAssignees{
		task("b", models.PriorityLow, time.Time{}, false),
		task("a", models.PriorityHigh, time.Time{}, false),
	}

	assert.Equal(t, []string{"b", "a"}, titles(SortTasks(tasks, SortNone)))
}

func TestIsMinePartition(t *testing.T) {
	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()

	assert.True(t, IsMine(models.Task{AssignedTo: []primitive.ObjectID{viewer}}, viewer), "solo assignment to viewer")
	assert.True(t, IsMine(models.Task{}, viewer), "no assignees stays with the creator")
	assert.False(t, IsMine(models.Task{AssignedTo: []primitive.ObjectID{other}}, viewer), "solo assignment to someone else")
	assert.False(t, IsMine(models.Task{AssignedTo: []primitive.ObjectID{viewer, other}}, viewer), "multi-assignee is shared")
}

func TestFilterTasks(t *testing.T) {
	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tasks := []models.TaskWithAssignees{
		task("mine", models.PriorityLow, time.Time{}, false, viewer),
		task("shared", models.PriorityLow, time.Time{}, false, viewer, other),
		task("theirs", models.PriorityLow, time.Time{}, false, other),
	}

	assert.Equal(t, []string{"mine"}, titles(FilterTasks(tasks, viewer, FilterMine)))
	assert.Equal(t, []string{"shared", "theirs"}, titles(FilterTasks(tasks, viewer, FilterShared)))
	assert.Equal(t, []string{"mine", "shared", "theirs"}, titles(FilterTasks(tasks, viewer, FilterAll)))
}

func TestBucketOfDayGranularity(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	yesterday := models.Task{DueDate: time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, BucketOverdue, BucketOf(yesterday, now))

	// Same day: later time-of-day must not matter.
	today := models.Task{DueDate: time.Date(2024, 6, 10, 0, 1, 0, 0, time.UTC)}
	assert.Equal(t, BucketPending, BucketOf(today, now))

	completed := models.Task{DueDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), IsCompleted: true}
	assert.Equal(t, BucketCompleted, BucketOf(completed, now))

	undated := models.Task{}
	assert.Equal(t, BucketPending, BucketOf(undated, now))
}

func TestBucketOfComparesDaysInOneLocation(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2024, 6, 10, 1, 0, 0, 0, zone)

	// 22:00 UTC on the 9th is already the 10th in now's zone: same day,
	// not overdue.
	sameLocalDay := models.Task{DueDate: time.Date(2024, 6, 9, 22, 0, 0, 0, time.UTC)}
	assert.Equal(t, BucketPending, BucketOf(sameLocalDay, now))

	previousLocalDay := models.Task{DueDate: time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)}
	assert.Equal(t, BucketOverdue, BucketOf(previousLocalDay, now))
}

func TestClassifyScenario(t *testing.T) {
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	solo := task("solo", models.PriorityHigh, now.AddDate(0, 0, 1), false, userA)
	shared := task("shared", models.PriorityLow, now.AddDate(0, 0, -1), false, userA, userB)
	done := task("done", models.PriorityMedium, now.AddDate(0, 0, -5), true, userA)

	all := []models.TaskWithAssignees{solo, shared, done}

	mine := Classify(all, userA, SortNone, FilterMine, now)
	assert.Equal(t, []string{"solo"}, titles(mine.Pending))
	assert.Equal(t, []string{"done"}, titles(mine.Completed))
	assert.Empty(t, mine.Overdue)

	sharedView := Classify(all, userA, SortNone, FilterShared, now)
	assert.Empty(t, sharedView.Pending)
	assert.Empty(t, sharedView.Completed)
	assert.Equal(t, []string{"shared"}, titles(sharedView.Overdue))

	// From B's side, the shared task is shared too.
	forB := Classify(all, userB, SortNone, FilterShared, now)
	assert.Equal(t, []string{"shared"}, titles(forB.Overdue))
}

func TestClassifySortsEachBucket(t *testing.T) {
	viewer := primitive.NewObjectID()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tasks := []models.TaskWithAssignees{
		task("low", models.PriorityLow, now.AddDate(0, 0, 2), false, viewer),
		task("high", models.PriorityHigh, now.AddDate(0, 0, 2), false, viewer),
		task("late-low", models.PriorityLow, now.AddDate(0, 0, -2), false, viewer),
		task("late-high", models.PriorityHigh, now.AddDate(0, 0, -2), false, viewer),
	}

	classified := Classify(tasks, viewer, SortByPriority, FilterAll, now)

	assert.Equal(t, []string{"high", "low"}, titles(classified.Pending))
	assert.Equal(t, []string{"late-high", "late-low"}, titles(classified.Overdue))
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2024, 6, 10, 23, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}
