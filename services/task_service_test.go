package services

import (
	"errors"
	"testing"

	"task-manager/backend/apperrors"
	"task-manager/backend/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateCreateTask(t *testing.T) {
	creator := primitive.NewObjectID()

	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr bool
	}{
		{"valid", CreateTaskInput{Title: "Ship release", CreatedBy: creator}, false},
		{"missing title", CreateTaskInput{CreatedBy: creator}, true},
		{"whitespace title", CreateTaskInput{Title: "   ", CreatedBy: creator}, true},
		{"missing creator", CreateTaskInput{Title: "Ship release"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateTask(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompletionOutcome(t *testing.T) {
	id := primitive.NewObjectID()

	_, err := CompletionOutcome(id, nil, false)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Completing an already completed task returns the current state
	// unchanged with no error, and stays that way on repeat calls.
	done := &models.Task{ID: id, IsCompleted: true}
	got, err := CompletionOutcome(id, done, true)
	assert.NoError(t, err)
	assert.True(t, got.IsCompleted)

	got, err = CompletionOutcome(id, got, true)
	assert.NoError(t, err)
	assert.True(t, got.IsCompleted)
}

func TestValidateSignUp(t *testing.T) {
	valid := SignUpInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret1"}
	assert.NoError(t, ValidateSignUp(valid))

	missingEmail := valid
	missingEmail.Email = " "
	assert.True(t, errors.Is(ValidateSignUp(missingEmail), apperrors.ErrValidation))

	shortPassword := valid
	shortPassword.Password = "abc"
	assert.True(t, errors.Is(ValidateSignUp(shortPassword), apperrors.ErrValidation))
}
