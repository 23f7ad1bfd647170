package location

import (
	"context"

	"github.com/yugabyte/pgx/v5/pgxpool"
)

// Store is the persistence contract the service depends on: a single-row
// insert that returns the materialized row, and a filtered scan. There are
// no updates, deletes or multi-statement transactions here.
type Store interface {
	// InsertLocation atomically inserts one row and returns it with the
	// store-assigned id and created_at.
	InsertLocation(ctx context.Context, input Input) (*Location, error)

	// SelectLocations returns every row satisfying all present filter
	// predicates. Result order is store-dependent and unspecified; callers
	// must not rely on insertion order. An empty result is not an error.
	SelectLocations(ctx context.Context, filter Filter) ([]Location, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) InsertLocation(ctx context.Context, input Input) (*Location, error) {
	var loc Location
	err := r.db.QueryRow(ctx,
		`INSERT INTO locations (source, latitude, longitude)
              VALUES ($1, $2, $3)
           RETURNING id, source, latitude, longitude, created_at`,
		input.Source, input.Latitude, input.Longitude).
		Scan(&loc.ID, &loc.Source, &loc.Latitude, &loc.Longitude, &loc.CreatedAt.Time)
	if err != nil {
		return nil, err
	}

	return &loc, nil
}

func (r *Repository) SelectLocations(ctx context.Context, filter Filter) ([]Location, error) {
	// A NULL parameter disables its predicate, so one statement covers every
	// combination of present and absent filter fields.
	rows, err := r.db.Query(ctx,
		`SELECT id, source, latitude, longitude, created_at
           FROM locations
          WHERE ($1::text IS NULL OR source = $1)
            AND ($2::timestamptz IS NULL OR created_at >= $2)
            AND ($3::timestamptz IS NULL OR created_at <= $3)`,
		filter.Source, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.ID, &loc.Source, &loc.Latitude, &loc.Longitude, &loc.CreatedAt.Time); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}
