package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/volcano-api/internal/models"
	"github.com/hongminglow/volcano-api/internal/storage"
)

var populationColumns = map[models.PopulationRadius]string{
	models.Within5km:   "population_5km",
	models.Within10km:  "population_10km",
	models.Within30km:  "population_30km",
	models.Within100km: "population_100km",
}

// Countries returns the distinct countries with at least one volcano, sorted.
func (s *Store) Countries(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT country FROM volcanoes;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	countries, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect countries: %w", err)
	}
	// Byte order, independent of the database collation.
	slices.Sort(countries)
	if countries == nil {
		countries = []string{}
	}
	return countries, nil
}

// ListVolcanoes returns the volcanoes of filter.Country, optionally restricted
// to those with a nonzero population within filter.PopulatedWithin.
func (s *Store) ListVolcanoes(ctx context.Context, filter models.VolcanoFilter) ([]models.VolcanoSummary, error) {
	query := `SELECT id, name, country, region, subregion FROM volcanoes WHERE country = $1`
	if filter.PopulatedWithin != "" {
		column, ok := populationColumns[filter.PopulatedWithin]
		if !ok {
			return nil, fmt.Errorf("unknown population radius %q", filter.PopulatedWithin)
		}
		query += " AND " + column + " > 0"
	}
	query += " ORDER BY id;"

	rows, err := s.pool.Query(ctx, query, filter.Country)
	if err != nil {
		return nil, fmt.Errorf("query volcanoes: %w", err)
	}
	volcanoes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.VolcanoSummary, error) {
		var v models.VolcanoSummary
		err := row.Scan(&v.ID, &v.Name, &v.Country, &v.Region, &v.Subregion)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect volcanoes: %w", err)
	}
	if volcanoes == nil {
		volcanoes = []models.VolcanoSummary{}
	}
	return volcanoes, nil
}

// GetVolcano fetches one volcano by id.
func (s *Store) GetVolcano(ctx context.Context, id int64, withPopulation bool) (models.Volcano, error) {
	const base = `SELECT id, name, country, region, subregion, last_eruption, summit, elevation, latitude, longitude`
	const population = `, population_5km, population_10km, population_30km, population_100km`

	query := base
	if withPopulation {
		query += population
	}
	query += ` FROM volcanoes WHERE id = $1;`

	var v models.Volcano
	dest := []any{&v.ID, &v.Name, &v.Country, &v.Region, &v.Subregion, &v.LastEruption, &v.Summit, &v.Elevation, &v.Latitude, &v.Longitude}
	if withPopulation {
		dest = append(dest, &v.Population5km, &v.Population10km, &v.Population30km, &v.Population100km)
	}

	if err := s.pool.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Volcano{}, storage.ErrNotFound
		}
		return models.Volcano{}, fmt.Errorf("query volcano: %w", err)
	}
	return v, nil
}
