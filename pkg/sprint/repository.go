package sprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/burnup/pkg/burn"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Create(ctx context.Context, sprint Sprint) (Sprint, error)
	Get(ctx context.Context, uid string) (Sprint, error)
	List(ctx context.Context) ([]Sprint, error)
	Update(ctx context.Context, sprint Sprint) (Sprint, error)
	Delete(ctx context.Context, uid string) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, sprint Sprint) (Sprint, error) {
	query := `INSERT INTO sprint (uid, name, start_date, end_date, list_id)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.db.QueryRow(ctx, query,
		sprint.Uid,
		sprint.Name,
		sprint.StartDate.Time(),
		sprint.EndDate.Time(),
		sprint.ListId,
	).Scan(&sprint.Id)
	if err != nil {
		log.Errorf("failed to create sprint: %v", err)
		return Sprint{}, fmt.Errorf("failed to create sprint: %w", err)
	}
	return sprint, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, uid string) (Sprint, error) {
	query := `SELECT id, uid, name, start_date, end_date, list_id FROM sprint WHERE uid = $1`

	sprint, err := scanSprint(r.db.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sprint{}, ErrSprintNotFound
		}
		log.Errorf("failed to get sprint %s: %v", uid, err)
		return Sprint{}, err
	}
	return sprint, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Sprint, error) {
	query := `SELECT id, uid, name, start_date, end_date, list_id FROM sprint ORDER BY start_date, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to list sprints: %v", err)
		return nil, err
	}
	defer rows.Close()

	sprints := make([]Sprint, 0)
	for rows.Next() {
		sprint, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		sprints = append(sprints, sprint)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sprints, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, sprint Sprint) (Sprint, error) {
	query := `UPDATE sprint SET name = $1, start_date = $2, end_date = $3, list_id = $4
				WHERE uid = $5 RETURNING id`

	err := r.db.QueryRow(ctx, query,
		sprint.Name,
		sprint.StartDate.Time(),
		sprint.EndDate.Time(),
		sprint.ListId,
		sprint.Uid,
	).Scan(&sprint.Id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sprint{}, ErrSprintNotFound
		}
		log.Errorf("failed to update sprint %s: %v", sprint.Uid, err)
		return Sprint{}, err
	}
	return sprint, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, uid string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sprint WHERE uid = $1`, uid)
	if err != nil {
		log.Errorf("failed to delete sprint %s: %v", uid, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanSprint(row pgx.Row) (Sprint, error) {
	var sprint Sprint
	var start, end time.Time
	err := row.Scan(&sprint.Id, &sprint.Uid, &sprint.Name, &start, &end, &sprint.ListId)
	if err != nil {
		return Sprint{}, err
	}
	sprint.StartDate = burn.DateOf(start)
	sprint.EndDate = burn.DateOf(end)
	return sprint, nil
}
