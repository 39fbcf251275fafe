package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/metrics"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
)

// ActivityInput holds the writable activity fields of a request. Read-only keys
// (id, user, created_at, updated_at) have no place here and are dropped on decode.
type ActivityInput struct {
	ActivityType    model.Field[string]     `json:"activity_type"`
	Title           model.Field[string]     `json:"title"`
	Description     model.Field[string]     `json:"description"`
	Date            model.Field[model.Date] `json:"date"`
	Status          model.Field[string]     `json:"status"`
	DurationMinutes model.Field[int]        `json:"duration_minutes"`
	WorkoutType     model.Field[string]     `json:"workout_type"`
	Calories        model.Field[int]        `json:"calories"`
	MealType        model.Field[string]     `json:"meal_type"`
	StepCount       model.Field[int]        `json:"step_count"`
}

type ActivityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) List(userID string) ([]*model.Activity, error) {
	return s.repo.Activities(userID)
}

func (s *ActivityService) Get(userID, activityID string) (*model.Activity, error) {
	return s.repo.ByID(userID, activityID)
}

func (s *ActivityService) Summary(userID string) (*model.ActivitySummary, error) {
	return s.repo.Summary(userID)
}

// Create stores a new activity owned by userID. activity_type, title and date are required.
func (s *ActivityService) Create(userID string, input ActivityInput) (*model.Activity, error) {
	activity := &model.Activity{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: model.ActivityStatusPlanned,
	}

	err := applyActivityInput(activity, input, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	err = s.repo.Create(activity)
	if err != nil {
		return nil, err
	}

	metrics.RecordActivityCreated(activity.ActivityType)

	return activity, nil
}

// Update is a full update: required fields must be present, optional fields that are
// absent keep their stored value.
func (s *ActivityService) Update(userID, activityID string, input ActivityInput) (*model.Activity, error) {
	return s.update(userID, activityID, input, true)
}

// PartialUpdate accepts any subset of fields.
func (s *ActivityService) PartialUpdate(userID, activityID string, input ActivityInput) (*model.Activity, error) {
	return s.update(userID, activityID, input, false)
}

func (s *ActivityService) update(userID, activityID string, input ActivityInput, full bool) (*model.Activity, error) {
	// Verify ownership
	activity, err := s.repo.ByID(userID, activityID)
	if err != nil {
		return nil, err
	}

	err = applyActivityInput(activity, input, full)
	if err != nil {
		return nil, err
	}

	activity.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(activity)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

func (s *ActivityService) Delete(userID, activityID string) error {
	return s.repo.Delete(userID, activityID)
}

// applyActivityInput merges input into activity and validates the result. With
// requireAll set, absent required fields are errors.
func applyActivityInput(activity *model.Activity, input ActivityInput, requireAll bool) error {
	errs := validation.FieldErrors{}

	applyRequired(errs, "activity_type", input.ActivityType, requireAll, func(v string) {
		activity.ActivityType = strings.TrimSpace(v)
	})
	applyRequired(errs, "title", input.Title, requireAll, func(v string) {
		activity.Title = strings.TrimSpace(v)
	})
	applyRequired(errs, "date", input.Date, requireAll, func(v model.Date) {
		activity.Date = v
	})
	applyRequired(errs, "description", input.Description, false, func(v string) {
		activity.Description = strings.TrimSpace(v)
	})
	applyRequired(errs, "status", input.Status, false, func(v string) {
		activity.Status = strings.TrimSpace(v)
	})

	applyNullable(input.DurationMinutes, &activity.DurationMinutes)
	applyNullable(input.Calories, &activity.Calories)
	applyNullable(input.StepCount, &activity.StepCount)
	applyNullableString(input.WorkoutType, &activity.WorkoutType)
	applyNullableString(input.MealType, &activity.MealType)

	// Fields already rejected for presence are not reported twice.
	for field, messages := range validation.ValidateActivity(activity) {
		if _, failed := errs[field]; failed {
			continue
		}
		errs[field] = messages
	}

	return newValidationError(errs)
}

// applyRequired handles a non-nullable field: null is always rejected, absence only
// when required.
func applyRequired[T any](errs validation.FieldErrors, name string, field model.Field[T], required bool, set func(T)) {
	switch {
	case !field.Set:
		if required {
			errs.Add(name, validation.MsgRequired)
		}
	case field.Value == nil:
		errs.Add(name, validation.MsgNull)
	default:
		set(*field.Value)
	}
}

func applyNullable[T any](field model.Field[T], dst **T) {
	if field.Set {
		*dst = field.Value
	}
}

func applyNullableString(field model.Field[string], dst **string) {
	if !field.Set {
		return
	}
	if field.Value == nil {
		*dst = nil
		return
	}
	v := strings.TrimSpace(*field.Value)
	*dst = &v
}
