package model

import (
	"time"
)

const (
	ActivityTypeWorkout = "workout"
	ActivityTypeMeal    = "meal"
	ActivityTypeSteps   = "steps"
)

const (
	ActivityStatusPlanned    = "planned"
	ActivityStatusInProgress = "in_progress"
	ActivityStatusCompleted  = "completed"
)

// ActivityTypes lists the accepted activity types in display order.
var ActivityTypes = []string{ActivityTypeWorkout, ActivityTypeMeal, ActivityTypeSteps}

// ActivityStatuses lists the accepted statuses in display order.
var ActivityStatuses = []string{ActivityStatusPlanned, ActivityStatusInProgress, ActivityStatusCompleted}

// Activity is one planned, in-progress or completed fitness event.
// The per-type fields (workout, meal, steps) may be set regardless of ActivityType.
type Activity struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user"`
	ActivityType    string    `db:"activity_type" json:"activity_type" validate:"oneof=workout meal steps"`
	Title           string    `db:"title" json:"title" validate:"required,max=200"`
	Description     string    `db:"description" json:"description"`
	Date            Date      `db:"date" json:"date"`
	Status          string    `db:"status" json:"status" validate:"oneof=planned in_progress completed"`
	DurationMinutes *int      `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,min=-2147483648,max=2147483647"`
	WorkoutType     *string   `db:"workout_type" json:"workout_type" validate:"omitempty,max=100"`
	Calories        *int      `db:"calories" json:"calories" validate:"omitempty,min=-2147483648,max=2147483647"`
	MealType        *string   `db:"meal_type" json:"meal_type" validate:"omitempty,max=50"`
	StepCount       *int      `db:"step_count" json:"step_count" validate:"omitempty,min=-2147483648,max=2147483647"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ActivitySummary aggregates a user's activities.
type ActivitySummary struct {
	Total                int            `json:"total"`
	ByType               map[string]int `json:"by_type"`
	ByStatus             map[string]int `json:"by_status"`
	TotalDurationMinutes int            `json:"total_duration_minutes"`
	TotalCalories        int            `json:"total_calories"`
	TotalSteps           int            `json:"total_steps"`
	LastActivityDate     *Date          `json:"last_activity_date"`
}
