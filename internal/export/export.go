// Package export writes the garden's records to an Excel workbook.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ferntree/sprout/internal/history"
	"github.com/ferntree/sprout/internal/reminder"
)

// Workbook writes items and reminders to an .xlsx file at path, one sheet
// per collection. Items arrive newest-first from the ledger and keep that
// order on the sheet.
func Workbook(path string, items []history.Item, reminders []reminder.Reminder) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err = f.SetSheetName("Sheet1", "History"); err != nil {
		return err
	}
	if err = writeRows(f, "History", historyRows(items)); err != nil {
		return err
	}

	if _, err = f.NewSheet("Reminders"); err != nil {
		return err
	}
	if err = writeRows(f, "Reminders", reminderRows(reminders)); err != nil {
		return err
	}

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func historyRows(items []history.Item) [][]any {
	rows := [][]any{{"Date", "Type", "Plant", "Summary", "Details"}}
	for _, it := range items {
		rows = append(rows, []any{
			it.Timestamp.Format("2006-01-02 15:04"),
			string(it.Kind()),
			it.PlantName,
			it.Payload.Headline(),
			details(it.Payload),
		})
	}
	return rows
}

// details flattens a payload for a single spreadsheet cell.
func details(p history.Payload) string {
	switch v := p.(type) {
	case history.Analysis:
		var parts []string
		if len(v.Symptoms) > 0 {
			parts = append(parts, "Symptoms: "+strings.Join(v.Symptoms, "; "))
		}
		if len(v.OrganicCure) > 0 {
			parts = append(parts, "Organic: "+strings.Join(v.OrganicCure, "; "))
		}
		if len(v.ChemicalCure) > 0 {
			parts = append(parts, "Chemical: "+strings.Join(v.ChemicalCure, "; "))
		}
		if len(v.Prevention) > 0 {
			parts = append(parts, "Prevention: "+strings.Join(v.Prevention, "; "))
		}
		return strings.Join(parts, " | ")
	case history.Guide:
		return v.Text
	case history.SoilReport:
		return fmt.Sprintf("N %s, P %s, K %s | Crops: %s | Improve: %s",
			v.Nitrogen, v.Phosphorus, v.Potassium,
			strings.Join(v.SuitableCrops, "; "), strings.Join(v.Improvements, "; "))
	case history.SeedReport:
		return fmt.Sprintf("%s | Regions: %s | Soil: %s | Tips: %s",
			v.Description, strings.Join(v.Regions, "; "), v.BestSoil,
			strings.Join(v.GrowthTips, "; "))
	default:
		return ""
	}
}

func reminderRows(reminders []reminder.Reminder) [][]any {
	rows := [][]any{{"Date", "Title", "Type", "Plant", "Done"}}
	for _, rem := range reminders {
		done := ""
		if rem.Completed {
			done = "yes"
		}
		rows = append(rows, []any{
			rem.Date.Format("2006-01-02"),
			rem.Title,
			string(rem.Type),
			rem.PlantName,
			done,
		})
	}
	return rows
}
