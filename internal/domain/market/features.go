package market

var matchResultFeatures = []string{
	// form, last 5
	"home_form_last_5_points", "home_form_last_5_wins", "home_form_last_5_draws",
	"home_form_last_5_losses", "home_form_last_5_goals_scored", "home_form_last_5_goals_conceded",
	"home_form_last_5_goal_diff", "home_form_last_5_clean_sheets", "home_form_last_5_failed_to_score",
	"home_form_last_5_avg_points", "home_form_last_5_avg_goals_scored", "home_form_last_5_avg_goals_conceded",

	"away_form_last_5_points", "away_form_last_5_wins", "away_form_last_5_draws",
	"away_form_last_5_losses", "away_form_last_5_goals_scored", "away_form_last_5_goals_conceded",
	"away_form_last_5_goal_diff", "away_form_last_5_clean_sheets", "away_form_last_5_failed_to_score",
	"away_form_last_5_avg_points", "away_form_last_5_avg_goals_scored", "away_form_last_5_avg_goals_conceded",

	// venue form, last 3
	"home_form_last_3_points", "home_form_last_3_wins", "home_form_last_3_goals_scored",
	"home_form_last_3_goals_conceded", "home_form_last_3_avg_points", "home_form_last_3_avg_goals_scored",

	"away_form_last_3_points", "away_form_last_3_wins", "away_form_last_3_goals_scored",
	"away_form_last_3_goals_conceded", "away_form_last_3_avg_points", "away_form_last_3_avg_goals_scored",

	"form_points_diff", "form_goals_scored_diff", "form_goal_diff_diff",

	// head to head
	"h2h_games_played", "h2h_home_wins", "h2h_away_wins", "h2h_draws",
	"h2h_home_goals_scored", "h2h_away_goals_scored", "h2h_goal_diff",
	"h2h_home_win_pct", "h2h_away_win_pct", "h2h_draw_pct",
	"h2h_avg_total_goals", "h2h_avg_home_goals", "h2h_avg_away_goals",
	"h2h_home_as_home_wins", "h2h_home_as_home_games", "h2h_home_as_home_win_pct",

	// standings
	"home_position", "away_position", "position_diff",
	"home_points", "away_points", "points_diff",
	"home_ppg", "away_ppg", "ppg_diff",
	"home_season_goals_for", "away_season_goals_for",
	"home_season_goals_against", "away_season_goals_against",
	"home_avg_goals_scored", "away_avg_goals_scored",
	"home_avg_goals_conceded", "away_avg_goals_conceded",
	"home_goal_diff", "away_goal_diff", "goal_diff_diff",
	"home_games_played", "away_games_played",
	"home_win_pct", "away_win_pct",
}

var goalFeatures = []string{
	"home_goals_scored_avg", "home_goals_conceded_avg", "home_total_goals_avg",
	"home_over_2_5_pct", "home_over_1_5_pct", "home_over_3_5_pct",
	"home_btts_pct", "home_clean_sheet_pct", "home_failed_to_score_pct",
	"away_goals_scored_avg", "away_goals_conceded_avg", "away_total_goals_avg",
	"away_over_2_5_pct", "away_over_1_5_pct", "away_over_3_5_pct",
	"away_btts_pct", "away_clean_sheet_pct", "away_failed_to_score_pct",

	"home_home_goals_scored_avg", "home_home_goals_conceded_avg", "home_home_total_goals_avg",
	"home_home_over_2_5_pct", "home_home_btts_pct", "home_home_clean_sheet_pct",
	"away_away_goals_scored_avg", "away_away_goals_conceded_avg", "away_away_total_goals_avg",
	"away_away_over_2_5_pct", "away_away_btts_pct", "away_away_clean_sheet_pct",

	"h2h_total_goals_avg", "h2h_over_2_5_pct", "h2h_btts_pct",
	"h2h_home_team_goals_avg", "h2h_away_team_goals_avg",

	"combined_goals_avg", "combined_total_goals_avg", "expected_total_goals",
	"both_over_2_5_pct", "both_btts_pct", "btts_potential",

	"home_form_last_5_goals_scored", "home_form_last_5_goals_conceded",
	"home_form_last_5_avg_goals_scored", "home_form_last_5_avg_goals_conceded",
	"away_form_last_5_goals_scored", "away_form_last_5_goals_conceded",
	"away_form_last_5_avg_goals_scored", "away_form_last_5_avg_goals_conceded",
	"home_form_last_3_goals_scored", "home_form_last_3_goals_conceded",
	"away_form_last_3_goals_scored", "away_form_last_3_goals_conceded",
}
