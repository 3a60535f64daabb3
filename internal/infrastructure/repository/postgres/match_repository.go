package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rucktrack/rucktrack/internal/domain/match"
)

const matchColumns = `id, home_team, away_team, match_type, team_category, age_level,
	kickoff_at, venue, venue_detail, competition, status, home_score, away_score,
	events, version, created_at, updated_at`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches ORDER BY kickoff_at ASC, id ASC`, matchColumns)

	var models []matchTableModel
	if err := r.db.SelectContext(ctx, &models, query); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(models))
	for _, model := range models {
		item, err := model.toDomain()
		if err != nil {
			return nil, fmt.Errorf("map match %s: %w", model.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE id = $1`, matchColumns)

	var model matchTableModel
	if err := r.db.GetContext(ctx, &model, query, id); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	item, err := model.toDomain()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("map match %s: %w", id, err)
	}
	return item, true, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) (match.Match, error) {
	model, err := matchToTableModel(item)
	if err != nil {
		return match.Match{}, err
	}

	query := `INSERT INTO matches (id, home_team, away_team, match_type, team_category,
		age_level, kickoff_at, venue, venue_detail, competition, status, home_score,
		away_score, events, version, created_at, updated_at)
	VALUES (:id, :home_team, :away_team, :match_type, :team_category,
		:age_level, :kickoff_at, :venue, :venue_detail, :competition, :status, :home_score,
		:away_score, :events, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	return item, nil
}

func (r *MatchRepository) Update(ctx context.Context, id string, item match.Match) (match.Match, bool, error) {
	item.ServerID = id
	model, err := matchToTableModel(item)
	if err != nil {
		return match.Match{}, false, err
	}

	query := `UPDATE matches SET
		home_team = :home_team, away_team = :away_team,
		match_type = :match_type, team_category = :team_category, age_level = :age_level,
		kickoff_at = :kickoff_at, venue = :venue, venue_detail = :venue_detail,
		competition = :competition, status = :status,
		home_score = :home_score, away_score = :away_score,
		events = :events, version = :version, updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("update match: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("rows affected update match: %w", err)
	}
	if affected == 0 {
		return match.Match{}, false, nil
	}
	return item, true, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete match: %w", err)
	}
	return affected > 0, nil
}
