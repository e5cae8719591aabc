package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

type mosqueRow struct {
	Name sql.NullString  `db:"name"`
	Lat  sql.NullFloat64 `db:"lat"`
	Lon  sql.NullFloat64 `db:"lon"`
}

// ListMosques returns every mosque with both coordinates present, in id
// order. Rows with a NULL name get the default name.
func (s *Store) ListMosques(ctx context.Context) ([]model.Mosque, error) {
	var rows []mosqueRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT name, lat, lon
		FROM mosques
		WHERE lat IS NOT NULL AND lon IS NOT NULL
		ORDER BY id
		`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mosques: %w", err)
	}

	out := make([]model.Mosque, 0, len(rows))
	for _, r := range rows {
		name := model.DefaultMosqueName
		if r.Name.Valid && r.Name.String != "" {
			name = r.Name.String
		}
		out = append(out, model.Mosque{Name: name, Lat: r.Lat.Float64, Lon: r.Lon.Float64})
	}
	return out, nil
}

// InsertMosques bulk-loads rows, used for seeding.
func (s *Store) InsertMosques(ctx context.Context, mosques []model.Mosque) error {
	if len(mosques) == 0 {
		return nil
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO mosques (name, lat, lon)
		VALUES (:name, :lat, :lon)
		`, mosques)
	if err != nil {
		return fmt.Errorf("failed to insert mosques: %w", err)
	}
	return nil
}
