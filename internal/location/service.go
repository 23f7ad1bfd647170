package location

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Service struct {
	store Store

	recordedCtr metric.Int64Counter
	fetchedCtr  metric.Int64Counter
}

func NewService(store Store) *Service {
	meter := otel.Meter("github.com/locfeed/locfeed/internal/location")

	recordedCtr, _ := meter.Int64Counter("locations.recorded",
		metric.WithDescription("The number of location records created"),
		metric.WithUnit("{record}"))
	fetchedCtr, _ := meter.Int64Counter("locations.fetched",
		metric.WithDescription("The number of location records returned by queries"),
		metric.WithUnit("{record}"))

	return &Service{store: store, recordedCtr: recordedCtr, fetchedCtr: fetchedCtr}
}

// CreateLocation validates the input and issues the single insert. There is
// no retry and no partial-write recovery: the statement either commits or it
// does not. Latitude and longitude are accepted as-is.
func (s *Service) CreateLocation(ctx context.Context, input Input) (*Location, error) {
	if !IsValidLabel(input.Source) {
		return nil, ErrInvalidSource
	}

	loc, err := s.store.InsertLocation(ctx, input)
	if err != nil {
		return nil, &StorageError{Op: "insert location", Err: err}
	}

	s.recordedCtr.Add(ctx, 1, metric.WithAttributes(attribute.String("source", loc.Source)))
	return loc, nil
}

// FindLocations validates a present source predicate and runs the filtered
// scan. Absent predicates mean no constraint; present predicates are ANDed.
func (s *Service) FindLocations(ctx context.Context, filter Filter) ([]Location, error) {
	if filter.Source != nil && !IsValidLabel(*filter.Source) {
		return nil, ErrInvalidSource
	}

	locations, err := s.store.SelectLocations(ctx, filter)
	if err != nil {
		return nil, &StorageError{Op: "select locations", Err: err}
	}

	s.fetchedCtr.Add(ctx, int64(len(locations)))
	return locations, nil
}
