package repository

import (
	"context"
	"errors"
	"fmt"

	"location-resolver/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// nearestRadiusMeters bounds FindNearestPlace.
const nearestRadiusMeters float64 = 10000

const placeSchema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS places (
		id BIGSERIAL PRIMARY KEY,
		prefecture VARCHAR(255) NOT NULL DEFAULT '',
		municipality VARCHAR(255) NOT NULL DEFAULT '',
		address_1 VARCHAR(255) NOT NULL DEFAULT '',
		address_2 VARCHAR(255) NOT NULL DEFAULT '',
		block_lot VARCHAR(255) NOT NULL DEFAULT '',
		postal_code VARCHAR(16) NOT NULL DEFAULT '',
		full_address_tsvector TSVECTOR GENERATED ALWAYS AS (
			to_tsvector('simple', prefecture || ' ' || municipality || ' ' || address_1 || ' ' || address_2)
		) STORED,
		geom GEOGRAPHY(POINT, 4326)
	);
	CREATE INDEX IF NOT EXISTS places_geom_idx ON places USING GIST (geom);
	CREATE INDEX IF NOT EXISTS places_full_address_tsvector_idx ON places USING GIN (full_address_tsvector);
`

// PlaceRepository reads and loads the PostGIS address table
type PlaceRepository struct {
	db *pgxpool.Pool
}

// NewPlaceRepository creates a new PostGIS place repository
func NewPlaceRepository(db *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// EnsurePlaceSchema creates the places table and its indexes when missing
func (r *PlaceRepository) EnsurePlaceSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, placeSchema); err != nil {
		return fmt.Errorf("repository: failed to create place schema: %w", err)
	}
	return nil
}

// ImportPlaces bulk loads places with COPY and returns the number of rows written
func (r *PlaceRepository) ImportPlaces(ctx context.Context, places []models.Place) (int64, error) {
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"places"},
		[]string{"prefecture", "municipality", "address_1", "address_2", "block_lot", "postal_code", "geom"},
		pgx.CopyFromSlice(len(places), func(i int) ([]any, error) {
			p := places[i]
			geom := fmt.Sprintf("SRID=4326;POINT(%f %f)", p.Longitude, p.Latitude) // PostGIS order: lon lat
			return []any{p.Prefecture, p.Municipality, p.Address1, p.Address2, p.BlockLot, p.PostalCode, geom}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy places: %w", err)
	}
	return n, nil
}

// CountPlaces returns the number of rows in the places table
func (r *PlaceRepository) CountPlaces(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM places").Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count places: %w", err)
	}
	return count, nil
}

// SearchPlaces performs a full-text search on the places table
func (r *PlaceRepository) SearchPlaces(ctx context.Context, query string) ([]models.Place, error) {
	sql := `
		SELECT
			id,
			prefecture,
			municipality,
			address_1,
			address_2,
			block_lot,
			postal_code,
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude
		FROM places
		WHERE full_address_tsvector @@ plainto_tsquery('simple', $1)
		ORDER BY ts_rank(full_address_tsvector, plainto_tsquery('simple', $1)) DESC, id
		LIMIT 10
	`

	rows, err := r.db.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute search query: %w", err)
	}
	defer rows.Close()

	places := []models.Place{}
	for rows.Next() {
		var p models.Place
		if err := scanPlace(rows, &p); err != nil {
			return nil, fmt.Errorf("repository: failed to scan place: %w", err)
		}
		places = append(places, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return places, nil
}

// FindNearestPlace performs a spatial query for the closest place within 10km.
// It returns nil without an error when nothing is in range.
func (r *PlaceRepository) FindNearestPlace(ctx context.Context, lat, lon float64) (*models.Place, error) {
	sql := `
		SELECT
			id,
			prefecture,
			municipality,
			address_1,
			address_2,
			block_lot,
			postal_code,
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude
		FROM places
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography
		LIMIT 1
	`

	var p models.Place
	err := scanPlace(r.db.QueryRow(ctx, sql, lat, lon, nearestRadiusMeters), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}

	return &p, nil
}

func scanPlace(row pgx.Row, p *models.Place) error {
	return row.Scan(
		&p.ID,
		&p.Prefecture,
		&p.Municipality,
		&p.Address1,
		&p.Address2,
		&p.BlockLot,
		&p.PostalCode,
		&p.Latitude,
		&p.Longitude,
	)
}
