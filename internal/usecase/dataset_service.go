package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/feature"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type DatasetConfig struct {
	// MinHistoryGames skips fixtures where either team has fewer prior
	// completed games. Zero keeps every fixture.
	MinHistoryGames int
	Windows         feature.Windows
	Logger          *logging.Logger
}

// DatasetRow is one labelled training sample built from earlier history only.
type DatasetRow struct {
	FixtureID  int64
	MatchDate  time.Time
	Season     int
	HomeTeamID int64
	AwayTeamID int64
	Features   feature.Vector
	Labels     feature.Labels
}

type DatasetResult struct {
	Rows    []DatasetRow
	Skipped int
	Failed  int
}

type DatasetService struct {
	fixtures   fixture.Repository
	composer   *feature.Composer
	minHistory int
	logger     *logging.Logger
}

func NewDatasetService(fixtures fixture.Repository, cfg DatasetConfig) *DatasetService {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &DatasetService{
		fixtures:   fixtures,
		composer:   feature.NewComposer(cfg.Windows),
		minHistory: max(cfg.MinHistoryGames, 0),
		logger:     cfg.Logger,
	}
}

func (s *DatasetService) Build(ctx context.Context, seasons []int) (result DatasetResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Build",
		attribute.IntSlice("seasons", seasons),
	)
	defer func() { endUsecaseSpan(span, err) }()

	if len(seasons) == 0 {
		return DatasetResult{}, fmt.Errorf("%w: at least one season is required", ErrInvalidInput)
	}

	items, err := s.fixtures.ListCompletedBySeasons(ctx, seasons)
	if err != nil {
		return DatasetResult{}, fmt.Errorf("%w: list completed fixtures: %w", ErrDependencyUnavailable, err)
	}

	history := feature.NewHistory(items)
	ordered := history.Fixtures()
	result.Rows = make([]DatasetRow, 0, len(ordered))

	for _, item := range ordered {
		if err := ctx.Err(); err != nil {
			return DatasetResult{}, err
		}
		if !s.hasEnoughHistory(history, item) {
			result.Skipped++
			continue
		}

		season := item.Season
		if season <= 0 {
			season = feature.SeasonForDate(item.MatchDate)
		}
		target := feature.Target{
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			MatchDate:  item.MatchDate,
			Season:     season,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
		}
		labels, ok := target.Labels()
		if !ok {
			result.Skipped++
			continue
		}

		vector, composeErr := s.composer.Compose(history, target)
		if composeErr != nil {
			result.Failed++
			s.logger.WarnContext(ctx, "dataset row skipped", "fixture_id", item.ID, "error", composeErr)
			continue
		}

		result.Rows = append(result.Rows, DatasetRow{
			FixtureID:  item.ID,
			MatchDate:  item.MatchDate,
			Season:     season,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			Features:   vector,
			Labels:     labels,
		})
	}

	s.logger.InfoContext(ctx, "dataset built",
		"fixtures", len(ordered),
		"rows", len(result.Rows),
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *DatasetService) hasEnoughHistory(history *feature.History, item fixture.Fixture) bool {
	if s.minHistory == 0 {
		return true
	}
	home := history.TeamWindow(item.HomeTeamID, item.MatchDate, s.minHistory, feature.VenueAny)
	away := history.TeamWindow(item.AwayTeamID, item.MatchDate, s.minHistory, feature.VenueAny)
	return len(home) >= s.minHistory && len(away) >= s.minHistory
}

// DatasetFeatureColumns is every feature any market trains on, match-result
// features first, without duplicates.
func DatasetFeatureColumns() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range market.All() {
		for _, name := range m.FeatureNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
