package memory

import (
	"fmt"
	"os"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-predictor/internal/domain/feature"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
)

var seedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type seedFixture struct {
	ID         int64  `json:"id"`
	Season     int    `json:"season"`
	LeagueID   int64  `json:"league_id"`
	Round      string `json:"round"`
	Venue      string `json:"venue"`
	HomeTeamID int64  `json:"home_team_id"`
	AwayTeamID int64  `json:"away_team_id"`
	MatchDate  string `json:"match_date"`
	HomeScore  *int   `json:"home_score"`
	AwayScore  *int   `json:"away_score"`
	Status     string `json:"status"`
}

// LoadSeedFile reads a JSON array of fixtures. A missing season is derived
// from the match date.
func LoadSeedFile(path string) ([]fixture.Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture seed %s: %w", path, err)
	}

	var items []seedFixture
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode fixture seed %s: %w", path, err)
	}

	out := make([]fixture.Fixture, 0, len(items))
	for i, item := range items {
		matchDate, err := parseSeedDate(item.MatchDate)
		if err != nil {
			return nil, fmt.Errorf("fixture seed %s item %d: %w", path, i, err)
		}
		if item.ID <= 0 || item.HomeTeamID <= 0 || item.AwayTeamID <= 0 {
			return nil, fmt.Errorf("fixture seed %s item %d: ids must be greater than zero", path, i)
		}

		season := item.Season
		if season <= 0 {
			season = feature.SeasonForDate(matchDate)
		}
		out = append(out, fixture.Fixture{
			ID:         item.ID,
			Season:     season,
			LeagueID:   item.LeagueID,
			Round:      item.Round,
			Venue:      item.Venue,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			MatchDate:  matchDate,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
			Status:     fixture.NormalizeStatus(item.Status),
		})
	}
	return out, nil
}

func parseSeedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range seedDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported match_date %q", value)
}

// SeedFixtures returns a small deterministic league for local runs: six
// teams playing a double round robin in each of the given seasons.
func SeedFixtures(seasons ...int) []fixture.Fixture {
	const teams = 6
	out := make([]fixture.Fixture, 0, len(seasons)*teams*(teams-1))

	id := int64(1)
	for _, season := range seasons {
		kickoff := time.Date(season, time.August, 12, 15, 0, 0, 0, time.UTC)
		for home := int64(1); home <= teams; home++ {
			for away := int64(1); away <= teams; away++ {
				if home == away {
					continue
				}
				homeScore := int((home*7 + away*3 + id) % 4)
				awayScore := int((away*5 + home + id) % 3)
				out = append(out, fixture.Fixture{
					ID:         id,
					Season:     season,
					LeagueID:   1,
					Round:      fmt.Sprintf("Regular Season - %d", (id-1)%(teams*(teams-1))/(teams/2)+1),
					HomeTeamID: home,
					AwayTeamID: away,
					MatchDate:  kickoff,
					HomeScore:  &homeScore,
					AwayScore:  &awayScore,
					Status:     "FT",
				})
				kickoff = kickoff.Add(72 * time.Hour)
				id++
			}
		}
	}
	return out
}
