package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/riskibarqy/match-predictor/internal/domain/feature"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

var datasetKeyColumns = []string{"id", "match_date", "season", "home_team_id", "away_team_id"}

func datasetHeader() []string {
	header := append([]string(nil), datasetKeyColumns...)
	header = append(header, usecase.DatasetFeatureColumns()...)
	return append(header, feature.LabelColumns()...)
}

// writeDatasetCSV writes one row per sample. Features a row lacks are written
// as empty cells.
func writeDatasetCSV(w io.Writer, rows []usecase.DatasetRow) error {
	featureColumns := usecase.DatasetFeatureColumns()
	labelColumns := feature.LabelColumns()

	cw := csv.NewWriter(w)
	if err := cw.Write(datasetHeader()); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}

	record := make([]string, 0, len(datasetKeyColumns)+len(featureColumns)+len(labelColumns))
	for _, row := range rows {
		record = record[:0]
		record = append(record,
			strconv.FormatInt(row.FixtureID, 10),
			row.MatchDate.UTC().Format("2006-01-02T15:04:05Z"),
			strconv.Itoa(row.Season),
			strconv.FormatInt(row.HomeTeamID, 10),
			strconv.FormatInt(row.AwayTeamID, 10),
		)
		for _, name := range featureColumns {
			value, ok := row.Features.Get(name)
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(value, 'g', -1, 64))
		}
		for _, name := range labelColumns {
			value, _ := row.Labels.Value(name)
			record = append(record, strconv.Itoa(value))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write dataset row %d: %w", row.FixtureID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush dataset csv: %w", err)
	}
	return nil
}
