package repository

import (
	"context"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
)

func (r *Repository) GetAllLactations() ([]*domain.Lactation, error) {
	query := `
		SELECT id, nni, date_controle, numero_lactation, lait_kg, mg_kg, taux_mg, created_at, version
		FROM lactations ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lactations := make([]*domain.Lactation, 0)
	for rows.Next() {
		lac := &domain.Lactation{}
		dst := []any{&lac.ID, &lac.NNI, &lac.DateControle, &lac.NumeroLactation, &lac.LaitKg, &lac.MGKg, &lac.TauxMG, &lac.CreatedAt, &lac.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		lactations = append(lactations, lac)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lactations, nil
}

func (r *Repository) GetLactationByID(id int64) (*domain.Lactation, error) {
	query := `
		SELECT nni, date_controle, numero_lactation, lait_kg, mg_kg, taux_mg, created_at, version
		FROM lactations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	lac := &domain.Lactation{
		ID: id,
	}

	dst := []any{&lac.NNI, &lac.DateControle, &lac.NumeroLactation, &lac.LaitKg, &lac.MGKg, &lac.TauxMG, &lac.CreatedAt, &lac.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, notFoundOn(err)
	}

	return lac, nil
}

func (r *Repository) CreateLactation(lac *domain.Lactation) error {
	query := `
		INSERT INTO lactations (nni, date_controle, numero_lactation, lait_kg, mg_kg, taux_mg)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{lac.NNI, lac.DateControle, lac.NumeroLactation, lac.LaitKg, lac.MGKg, lac.TauxMG}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&lac.ID, &lac.CreatedAt, &lac.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateLactation(lac *domain.Lactation) error {
	query := `
		UPDATE lactations
		SET
			nni = $1,
			date_controle = $2,
			numero_lactation = $3,
			lait_kg = $4,
			mg_kg = $5,
			taux_mg = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{lac.NNI, lac.DateControle, lac.NumeroLactation, lac.LaitKg, lac.MGKg, lac.TauxMG, lac.ID, lac.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&lac.CreatedAt, &lac.Version); err != nil {
		return notFoundOn(err)
	}

	return nil
}

func (r *Repository) DeleteLactation(id int64) error {
	query := `
		DELETE FROM lactations WHERE id = $1
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
