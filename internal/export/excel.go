// Package export renders a finished schedule for downstream consumers:
// Excel workbooks, CSV, and JSON. Nothing here feeds back into scheduling.
package export

import (
	"fmt"

	"github.com/mlehner/tatami/internal/engine"
	"github.com/mlehner/tatami/internal/event"
	"github.com/xuri/excelize/v2"
)

// Excel creates a workbook with one timetable sheet per area and an athlete
// summary sheet.
func Excel(ev *event.Event, sched *engine.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	for _, area := range ev.Areas {
		if err := writeAreaSheet(f, area, sched); err != nil {
			return nil, fmt.Errorf("writing area sheet %q: %w", area.Name, err)
		}
	}
	if err := writeAthleteSheet(f, sched); err != nil {
		return nil, fmt.Errorf("writing athlete sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func writeAreaSheet(f *excelize.File, area event.Area, sched *engine.Schedule) error {
	sheet := area.Name
	if sheet == "" {
		sheet = area.ID
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	groupNames := make(map[string]string)
	for _, g := range area.Groups {
		groupNames[g.ID] = g.Name
	}

	headers := []string{"#", "Start", "End", "Group", "Red", "White", "Round"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if style := headerStyle(f); style != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), style)
	}

	row := 1
	for _, e := range sched.Entries {
		if e.AreaID != area.ID {
			continue
		}
		row++
		f.SetCellValue(sheet, cellRef(1, row), e.Sequence)
		f.SetCellValue(sheet, cellRef(2, row), e.StartClock)
		f.SetCellValue(sheet, cellRef(3, row), event.FormatClock(e.EndSeconds))
		f.SetCellValue(sheet, cellRef(4, row), groupNames[e.GroupID])
		f.SetCellValue(sheet, cellRef(5, row), e.AthleteAName)
		f.SetCellValue(sheet, cellRef(6, row), e.AthleteBName)
		if e.Round > 0 {
			f.SetCellValue(sheet, cellRef(7, row), e.Round)
		}
	}

	widths := map[string]float64{"A": 6, "B": 10, "C": 10, "D": 20, "E": 24, "F": 24, "G": 8}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func writeAthleteSheet(f *excelize.File, sched *engine.Schedule) error {
	sheet := "Athletes"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Athlete", "Matches", "Min Rest", "Avg Rest", "Violations"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if style := headerStyle(f); style != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), style)
	}

	if sched.Stats == nil {
		return nil
	}
	for i, ar := range sched.Stats.Athletes {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), ar.AthleteName)
		f.SetCellValue(sheet, cellRef(2, row), ar.Matches)
		if ar.Matches > 1 {
			f.SetCellValue(sheet, cellRef(3, row), event.FormatClock(ar.MinRestSeconds))
			f.SetCellValue(sheet, cellRef(4, row), event.FormatClock(int(ar.AvgRestSeconds)))
		}
		f.SetCellValue(sheet, cellRef(5, row), ar.Violations)
	}

	widths := map[string]float64{"A": 24, "B": 10, "C": 10, "D": 10, "E": 12}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
