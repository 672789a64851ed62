package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
)

func notFoundOn(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *Repository) GetAllInseminations() ([]*domain.Insemination, error) {
	query := `
		SELECT id, nni, date_insemination, inseminateur_id, responsable_local_id, semence_id, observations, created_at, version
		FROM inseminations ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inseminations := make([]*domain.Insemination, 0)
	for rows.Next() {
		ins := &domain.Insemination{}
		dst := []any{&ins.ID, &ins.NNI, &ins.DateInsemination, &ins.InseminateurID, &ins.ResponsableLocalID, &ins.SemenceID, &ins.Observations, &ins.CreatedAt, &ins.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		inseminations = append(inseminations, ins)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return inseminations, nil
}

func (r *Repository) GetInseminationByID(id int64) (*domain.Insemination, error) {
	query := `
		SELECT nni, date_insemination, inseminateur_id, responsable_local_id, semence_id, observations, created_at, version
		FROM inseminations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	ins := &domain.Insemination{
		ID: id,
	}

	dst := []any{&ins.NNI, &ins.DateInsemination, &ins.InseminateurID, &ins.ResponsableLocalID, &ins.SemenceID, &ins.Observations, &ins.CreatedAt, &ins.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, notFoundOn(err)
	}

	return ins, nil
}

func (r *Repository) CreateInsemination(ins *domain.Insemination) error {
	query := `
		INSERT INTO inseminations (nni, date_insemination, inseminateur_id, responsable_local_id, semence_id, observations)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{ins.NNI, ins.DateInsemination, ins.InseminateurID, ins.ResponsableLocalID, ins.SemenceID, ins.Observations}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ins.ID, &ins.CreatedAt, &ins.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateInsemination(ins *domain.Insemination) error {
	query := `
		UPDATE inseminations
		SET
			nni = $1,
			date_insemination = $2,
			inseminateur_id = $3,
			responsable_local_id = $4,
			semence_id = $5,
			observations = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{ins.NNI, ins.DateInsemination, ins.InseminateurID, ins.ResponsableLocalID, ins.SemenceID, ins.Observations, ins.ID, ins.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ins.CreatedAt, &ins.Version); err != nil {
		return notFoundOn(err)
	}

	return nil
}

func (r *Repository) DeleteInsemination(id int64) error {
	query := `
		DELETE FROM inseminations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}
