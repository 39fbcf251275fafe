package validation

import (
	"github.com/templui/fittrack/internal/model"
)

// ValidateActivity checks a fully assembled activity: enumeration membership,
// required text and length limits. Presence of input keys is checked by the caller.
func ValidateActivity(activity *model.Activity) FieldErrors {
	errs := structErrors(activity)

	if activity.Date.IsZero() {
		errs.Add("date", MsgRequired)
	}

	return errs
}
