package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rucktrack/rucktrack/internal/domain/game"
)

const gameColumns = `id, match_id, home_name, home_score, home_breakdown,
	away_name, away_score, away_breakdown, clock, events, status, version,
	created_at, updated_at`

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games ORDER BY created_at DESC, id DESC`, gameColumns)

	var models []gameTableModel
	if err := r.db.SelectContext(ctx, &models, query); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]game.Game, 0, len(models))
	for _, model := range models {
		item, err := model.toDomain()
		if err != nil {
			return nil, fmt.Errorf("map game %s: %w", model.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE id = $1`, gameColumns)

	var model gameTableModel
	if err := r.db.GetContext(ctx, &model, query, id); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	item, err := model.toDomain()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("map game %s: %w", id, err)
	}
	return item, true, nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) (game.Game, error) {
	model, err := gameToTableModel(item)
	if err != nil {
		return game.Game{}, err
	}

	query := `INSERT INTO games (id, match_id, home_name, home_score, home_breakdown,
		away_name, away_score, away_breakdown, clock, events, status, version,
		created_at, updated_at)
	VALUES (:id, :match_id, :home_name, :home_score, :home_breakdown,
		:away_name, :away_score, :away_breakdown, :clock, :events, :status, :version,
		:created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	return item, nil
}

func (r *GameRepository) Update(ctx context.Context, id string, item game.Game) (game.Game, bool, error) {
	item.ServerID = id
	model, err := gameToTableModel(item)
	if err != nil {
		return game.Game{}, false, err
	}

	query := `UPDATE games SET
		match_id = :match_id,
		home_name = :home_name, home_score = :home_score, home_breakdown = :home_breakdown,
		away_name = :away_name, away_score = :away_score, away_breakdown = :away_breakdown,
		clock = :clock, events = :events, status = :status, version = :version,
		updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("update game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("rows affected update game: %w", err)
	}
	if affected == 0 {
		return game.Game{}, false, nil
	}
	return item, true, nil
}

func (r *GameRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete game: %w", err)
	}
	return affected > 0, nil
}

func (r *GameRepository) DeleteAll(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games`)
	if err != nil {
		return 0, fmt.Errorf("delete all games: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected delete all games: %w", err)
	}
	return int(affected), nil
}

func (r *GameRepository) Stats(ctx context.Context) (game.Stats, error) {
	var totals struct {
		Total        int     `db:"total"`
		Completed    int     `db:"completed"`
		AvgHomeScore float64 `db:"avg_home_score"`
		AvgAwayScore float64 `db:"avg_away_score"`
	}
	err := r.db.GetContext(ctx, &totals, `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		COALESCE(AVG(home_score) FILTER (WHERE status = 'completed'), 0) AS avg_home_score,
		COALESCE(AVG(away_score) FILTER (WHERE status = 'completed'), 0) AS avg_away_score
	FROM games`)
	if err != nil {
		return game.Stats{}, fmt.Errorf("game stats totals: %w", err)
	}

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM games GROUP BY status`); err != nil {
		return game.Stats{}, fmt.Errorf("game stats by status: %w", err)
	}

	stats := game.Stats{
		Total:        totals.Total,
		Completed:    totals.Completed,
		AvgHomeScore: totals.AvgHomeScore,
		AvgAwayScore: totals.AvgAwayScore,
		ByStatus:     make(map[string]int, len(rows)),
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}
	return stats, nil
}
