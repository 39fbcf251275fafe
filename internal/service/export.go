package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/templui/fittrack/internal/model"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const exportSheet = "Activities"

var exportHeaders = []string{
	"Date", "Type", "Title", "Status", "Duration (min)", "Workout type",
	"Calories", "Meal type", "Steps", "Description", "Created at",
}

// ExportCSV writes the user's activities in list order as CSV with a header row.
func (s *ActivityService) ExportCSV(userID string, w io.Writer) error {
	activities, err := s.repo.Activities(userID)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	writer := csv.NewWriter(w)

	err = writer.Write(exportHeaders)
	if err != nil {
		return err
	}

	for _, activity := range activities {
		err = writer.Write(exportRow(activity))
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportXLSX writes the same rows as ExportCSV into a single-sheet workbook.
func (s *ActivityService) ExportXLSX(userID string, w io.Writer) error {
	activities, err := s.repo.Activities(userID)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	err = f.DeleteSheet("Sheet1")
	if err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	rows := make([][]string, 0, len(activities)+1)
	rows = append(rows, exportHeaders)
	for _, activity := range activities {
		rows = append(rows, exportRow(activity))
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		err = f.SetSheetRow(exportSheet, cell, &values)
		if err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	err = f.SetColWidth(exportSheet, "A", "A", 12)
	if err != nil {
		return err
	}
	err = f.SetColWidth(exportSheet, "C", "C", 30)
	if err != nil {
		return err
	}
	err = f.SetColWidth(exportSheet, "J", "J", 40)
	if err != nil {
		return err
	}

	return f.Write(w)
}

func exportRow(a *model.Activity) []string {
	return []string{
		a.Date.String(),
		label(a.ActivityType),
		a.Title,
		label(a.Status),
		optionalInt(a.DurationMinutes),
		optionalString(a.WorkoutType),
		optionalInt(a.Calories),
		optionalString(a.MealType),
		optionalInt(a.StepCount),
		a.Description,
		a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// label turns an enumeration value such as in_progress into "In Progress".
func label(value string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(value, "_", " "))
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
