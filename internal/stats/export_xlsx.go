package stats

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	attemptsSheet = "Attempts"
	summarySheet  = "Summary"
)

func exportXLSX(attempts []Attempt, opts ExportOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), attemptsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	if err := setRow(f, attemptsSheet, 1, toCells(opts.Locale.CSVHeader)); err != nil {
		return nil, err
	}
	for i, a := range attempts {
		row := tableRow(a, opts)
		cells := []any{row[0], row[1], a.Score, a.CorrectAnswers, a.TotalQuestions, a.Minutes()}
		if err := setRow(f, attemptsSheet, i+2, cells); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	s := ComputeSummary(attempts)
	summaryRows := [][]any{
		{"total_attempts", s.TotalAttempts},
		{"average_score", s.AverageScore},
		{"highest_score", s.HighestScore},
		{"lowest_score", s.LowestScore},
		{"total_time", s.TotalTime},
		{"average_time", s.AverageTime},
		{"excellent_scores", s.ExcellentScores},
		{"good_scores", s.GoodScores},
		{"fair_scores", s.FairScores},
		{"poor_scores", s.PoorScores},
		{"success_rate", s.SuccessRate},
		{"improvement_trend", s.ImprovementTrend},
	}
	for i, row := range summaryRows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write Excel row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
