package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
)

// Every query here is scoped by user_id, so an activity owned by someone else
// behaves exactly like one that does not exist.
type ActivityRepository interface {
	Create(activity *model.Activity) error
	ByID(userID, activityID string) (*model.Activity, error)
	Activities(userID string) ([]*model.Activity, error)
	Summary(userID string) (*model.ActivitySummary, error)
	Update(activity *model.Activity) error
	Delete(userID, activityID string) error
}

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *model.Activity) error {
	query := `INSERT INTO activities (id, user_id, activity_type, title, description, date, status,
	              duration_minutes, workout_type, calories, meal_type, step_count, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(query,
		activity.ID,
		activity.UserID,
		activity.ActivityType,
		activity.Title,
		activity.Description,
		activity.Date,
		activity.Status,
		activity.DurationMinutes,
		activity.WorkoutType,
		activity.Calories,
		activity.MealType,
		activity.StepCount,
		activity.CreatedAt,
		activity.UpdatedAt,
	)

	return err
}

func (r *activityRepository) ByID(userID, activityID string) (*model.Activity, error) {
	activity := &model.Activity{}
	query := `SELECT * FROM activities WHERE id = $1 AND user_id = $2`

	err := r.db.Get(activity, query, activityID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	return activity, nil
}

func (r *activityRepository) Activities(userID string) ([]*model.Activity, error) {
	activities := []*model.Activity{}
	query := `SELECT * FROM activities WHERE user_id = $1 ORDER BY date DESC, created_at DESC`

	err := r.db.Select(&activities, query, userID)
	if err != nil {
		return nil, err
	}

	return activities, nil
}

type summaryRow struct {
	ActivityType string         `db:"activity_type"`
	Status       string         `db:"status"`
	Count        int            `db:"count"`
	Duration     sql.NullInt64  `db:"duration"`
	Calories     sql.NullInt64  `db:"calories"`
	Steps        sql.NullInt64  `db:"steps"`
	LastDate     sql.NullString `db:"last_date"`
}

func (r *activityRepository) Summary(userID string) (*model.ActivitySummary, error) {
	var rows []summaryRow
	query := `SELECT activity_type, status, COUNT(*) AS count,
	                 SUM(duration_minutes) AS duration, SUM(calories) AS calories, SUM(step_count) AS steps,
	                 CAST(MAX(date) AS TEXT) AS last_date
	          FROM activities WHERE user_id = $1
	          GROUP BY activity_type, status`

	err := r.db.Select(&rows, query, userID)
	if err != nil {
		return nil, err
	}

	summary := &model.ActivitySummary{
		ByType:   make(map[string]int, len(model.ActivityTypes)),
		ByStatus: make(map[string]int, len(model.ActivityStatuses)),
	}
	for _, t := range model.ActivityTypes {
		summary.ByType[t] = 0
	}
	for _, s := range model.ActivityStatuses {
		summary.ByStatus[s] = 0
	}

	for _, row := range rows {
		summary.Total += row.Count
		summary.ByType[row.ActivityType] += row.Count
		summary.ByStatus[row.Status] += row.Count
		summary.TotalDurationMinutes += int(row.Duration.Int64)
		summary.TotalCalories += int(row.Calories.Int64)
		summary.TotalSteps += int(row.Steps.Int64)

		if !row.LastDate.Valid {
			continue
		}
		var d model.Date
		err = d.Scan(row.LastDate.String)
		if err != nil {
			return nil, err
		}
		if summary.LastActivityDate == nil || d.After(summary.LastActivityDate.Time) {
			summary.LastActivityDate = &d
		}
	}

	return summary, nil
}

func (r *activityRepository) Update(activity *model.Activity) error {
	query := `UPDATE activities
	          SET activity_type = $1, title = $2, description = $3, date = $4, status = $5,
	              duration_minutes = $6, workout_type = $7, calories = $8, meal_type = $9, step_count = $10,
	              updated_at = $11
	          WHERE id = $12 AND user_id = $13`

	if activity.UpdatedAt.IsZero() {
		activity.UpdatedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(query,
		activity.ActivityType,
		activity.Title,
		activity.Description,
		activity.Date,
		activity.Status,
		activity.DurationMinutes,
		activity.WorkoutType,
		activity.Calories,
		activity.MealType,
		activity.StepCount,
		activity.UpdatedAt,
		activity.ID,
		activity.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrActivityNotFound
	}

	return nil
}

func (r *activityRepository) Delete(userID, activityID string) error {
	query := `DELETE FROM activities WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, activityID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrActivityNotFound
	}

	return nil
}
