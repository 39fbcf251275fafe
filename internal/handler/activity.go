package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/fittrack/internal/ctxkeys"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/service"
	"github.com/templui/fittrack/internal/validation"
)

const (
	msgInvalidString  = "Not a valid string."
	msgInvalidInteger = "A valid integer is required."
	msgInvalidDate    = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

type activityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *activityHandler {
	return &activityHandler{activityService: activityService}
}

func (h *activityHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	activities, err := h.activityService.List(user.ID)
	if err != nil {
		writeServiceError(w, err, "failed to list activities", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

func (h *activityHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	input, ok := decodeActivityInput(w, r)
	if !ok {
		return
	}

	activity, err := h.activityService.Create(user.ID, input)
	if err != nil {
		writeServiceError(w, err, "failed to create activity", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, activity)
}

func (h *activityHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	activityID := r.PathValue("id")

	activity, err := h.activityService.Get(user.ID, activityID)
	if err != nil {
		writeServiceError(w, err, "failed to get activity", "user_id", user.ID, "activity_id", activityID)
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

func (h *activityHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	activityID := r.PathValue("id")

	input, ok := decodeActivityInput(w, r)
	if !ok {
		return
	}

	activity, err := h.activityService.Update(user.ID, activityID, input)
	if err != nil {
		writeServiceError(w, err, "failed to update activity", "user_id", user.ID, "activity_id", activityID)
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

func (h *activityHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	activityID := r.PathValue("id")

	input, ok := decodeActivityInput(w, r)
	if !ok {
		return
	}

	activity, err := h.activityService.PartialUpdate(user.ID, activityID, input)
	if err != nil {
		writeServiceError(w, err, "failed to update activity", "user_id", user.ID, "activity_id", activityID)
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

func (h *activityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	activityID := r.PathValue("id")

	err := h.activityService.Delete(user.ID, activityID)
	if err != nil {
		writeServiceError(w, err, "failed to delete activity", "user_id", user.ID, "activity_id", activityID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *activityHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	summary, err := h.activityService.Summary(user.ID)
	if err != nil {
		writeServiceError(w, err, "failed to summarize activities", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Export downloads all of the caller's activities as CSV, or as XLSX with ?format=xlsx.
func (h *activityHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	var contentType string
	var err error

	switch format {
	case "csv":
		contentType = "text/csv; charset=utf-8"
		err = h.activityService.ExportCSV(user.ID, &buf)
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = h.activityService.ExportXLSX(user.ID, &buf)
	default:
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Unsupported export format %q. Use csv or xlsx.", format))
		return
	}

	if err != nil {
		slog.Error("failed to export activities", "error", err, "user_id", user.ID, "format", format)
		writeDetail(w, http.StatusInternalServerError, detailServerError)
		return
	}

	filename := fmt.Sprintf("activities-%s.%s", time.Now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeBody(w, buf.Bytes())
}

// decodeActivityInput decodes each known key on its own so a badly typed value is
// reported against its field. Unknown and read-only keys are ignored.
func decodeActivityInput(w http.ResponseWriter, r *http.Request) (service.ActivityInput, bool) {
	var input service.ActivityInput

	body, err := readBody(w, r)
	if err != nil {
		writeParseError(w, err)
		return input, false
	}

	var raw map[string]json.RawMessage
	err = json.Unmarshal(body, &raw)
	if err != nil {
		writeParseError(w, err)
		return input, false
	}

	errs := validation.FieldErrors{}
	decodeField(raw, errs, "activity_type", &input.ActivityType, msgInvalidString)
	decodeField(raw, errs, "title", &input.Title, msgInvalidString)
	decodeField(raw, errs, "description", &input.Description, msgInvalidString)
	decodeField(raw, errs, "date", &input.Date, msgInvalidDate)
	decodeField(raw, errs, "status", &input.Status, msgInvalidString)
	decodeField(raw, errs, "duration_minutes", &input.DurationMinutes, msgInvalidInteger)
	decodeField(raw, errs, "workout_type", &input.WorkoutType, msgInvalidString)
	decodeField(raw, errs, "calories", &input.Calories, msgInvalidInteger)
	decodeField(raw, errs, "meal_type", &input.MealType, msgInvalidString)
	decodeField(raw, errs, "step_count", &input.StepCount, msgInvalidInteger)

	if !errs.Empty() {
		writeJSON(w, http.StatusBadRequest, errs)
		return input, false
	}

	return input, true
}

func decodeField[T any](raw map[string]json.RawMessage, errs validation.FieldErrors, name string, dst *model.Field[T], invalid string) {
	data, ok := raw[name]
	if !ok {
		return
	}

	err := json.Unmarshal(data, dst)
	if err != nil {
		errs.Add(name, invalid)
	}
}
