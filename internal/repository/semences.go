package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

func translateSemenceError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "semences_code_taureau_key" {
		return ErrDuplicateCodeTaureau
	}

	return notFoundOn(err)
}

func (r *Repository) GetAllSemences() ([]*domain.Semence, error) {
	query := `
		SELECT id, code_taureau, nom_taureau, race, numero_lot, date_production, quantite_doses, created_at, version
		FROM semences ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	semences := make([]*domain.Semence, 0)
	for rows.Next() {
		sem := &domain.Semence{}
		dst := []any{&sem.ID, &sem.CodeTaureau, &sem.NomTaureau, &sem.Race, &sem.NumeroLot, &sem.DateProduction, &sem.QuantiteDoses, &sem.CreatedAt, &sem.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		semences = append(semences, sem)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return semences, nil
}

func (r *Repository) GetSemenceByID(id int64) (*domain.Semence, error) {
	query := `
		SELECT code_taureau, nom_taureau, race, numero_lot, date_production, quantite_doses, created_at, version
		FROM semences WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	sem := &domain.Semence{
		ID: id,
	}

	dst := []any{&sem.CodeTaureau, &sem.NomTaureau, &sem.Race, &sem.NumeroLot, &sem.DateProduction, &sem.QuantiteDoses, &sem.CreatedAt, &sem.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, notFoundOn(err)
	}

	return sem, nil
}

func (r *Repository) CreateSemence(sem *domain.Semence) error {
	query := `
		INSERT INTO semences (code_taureau, nom_taureau, race, numero_lot, date_production, quantite_doses)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{sem.CodeTaureau, sem.NomTaureau, sem.Race, sem.NumeroLot, sem.DateProduction, sem.QuantiteDoses}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sem.ID, &sem.CreatedAt, &sem.Version); err != nil {
		return translateSemenceError(err)
	}

	return nil
}

func (r *Repository) UpdateSemence(sem *domain.Semence) error {
	query := `
		UPDATE semences
		SET
			code_taureau = $1,
			nom_taureau = $2,
			race = $3,
			numero_lot = $4,
			date_production = $5,
			quantite_doses = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{sem.CodeTaureau, sem.NomTaureau, sem.Race, sem.NumeroLot, sem.DateProduction, sem.QuantiteDoses, sem.ID, sem.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sem.CreatedAt, &sem.Version); err != nil {
		return translateSemenceError(err)
	}

	return nil
}

func (r *Repository) DeleteSemence(id int64) error {
	query := `
		DELETE FROM semences WHERE id = $1
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
