package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/types"
)

const (
	analysisSheet = "Analysis"
	summarySheet  = "Summary"
)

// WriteReport streams an xlsx workbook with one analysis sheet (flattened
// rows) and one summary sheet. This is the export collaborator's concern;
// the engine itself owns no serialization.
func WriteReport(w io.Writer, survey types.Survey, analyses map[string]*types.QuestionAnalysis, sum types.ExecutiveSummary) error {
	log := logger.Component("export").WithField("survey_id", survey.ID)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", analysisSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []string{"Question", "Type", "Response / Option / Rating", "Count"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(analysisSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	rows := Rows(survey, analyses)
	for i, r := range rows {
		values := []interface{}{r.Question, r.Type, r.Label, r.Count}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(analysisSheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeSummary(f, sum); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	log.WithField("rows", len(rows)).Info("report written")
	return nil
}

func writeSummary(f *excelize.File, sum types.ExecutiveSummary) error {
	lines := [][2]interface{}{
		{"Survey", sum.SurveyTitle},
		{"Generated", sum.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Responses", sum.ResponseCount},
	}
	if sum.HasNPS {
		lines = append(lines, [2]interface{}{"NPS", sum.NPSScore})
	}
	lines = append(lines,
		[2]interface{}{"Positive", sum.Sentiment.Positive},
		[2]interface{}{"Neutral", sum.Sentiment.Neutral},
		[2]interface{}{"Negative", sum.Sentiment.Negative},
	)
	for i, t := range sum.TopThemes {
		lines = append(lines, [2]interface{}{fmt.Sprintf("Theme %d", i+1), fmt.Sprintf("%s (%d)", t.Theme, t.Count)})
	}
	lines = append(lines, [2]interface{}{"Insight", sum.Insight})

	for i, kv := range lines {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(summarySheet, keyCell, kv[0]); err != nil {
			return fmt.Errorf("write summary key: %w", err)
		}
		if err := f.SetCellValue(summarySheet, valCell, kv[1]); err != nil {
			return fmt.Errorf("write summary value: %w", err)
		}
	}
	return nil
}
