package location

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/locfeed/locfeed/internal/config"
	"github.com/locfeed/locfeed/internal/shared"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	service *Service
}

func NewHandler(r *mux.Router, service *Service) *Handler {
	handler := &Handler{service: service}
	r.HandleFunc("/locations", handler.CreateLocation).Methods("POST")
	r.HandleFunc("/locations", handler.ListLocations).Methods("GET")
	return handler
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSpan := trace.SpanFromContext(ctx)
	currentSpan.AddEvent("CreateLocation")

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("POST /locations",
		slog.String("request_id", shared.RequestIDFrom(ctx)),
		slog.String("source", input.Source),
		slog.Float64("latitude", input.Latitude),
		slog.Float64("longitude", input.Longitude))

	newLocation, err := h.service.CreateLocation(ctx, input)
	if err != nil {
		h.writeFailure(w, currentSpan, err, "No record added")
		return
	}

	slog.Info("Record added", slog.Int64("id", newLocation.ID), slog.String("source", newLocation.Source))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Record added"))
}

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSpan := trace.SpanFromContext(ctx)
	currentSpan.AddEvent("ListLocations")

	params := r.URL.Query()
	slog.Info("GET /locations",
		slog.String("request_id", shared.RequestIDFrom(ctx)),
		slog.String("source", params.Get("source")),
		slog.String("from", params.Get("from")),
		slog.String("to", params.Get("to")))

	filter, err := filterFromQuery(params.Get("source"), params.Get("from"), params.Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		currentSpan.RecordError(err)
		currentSpan.SetStatus(codes.Error, err.Error())
		return
	}

	locations, err := h.service.FindLocations(ctx, filter)
	if err != nil {
		h.writeFailure(w, currentSpan, err, "No records fetched")
		return
	}

	slog.Info("Records fetched", slog.Int("count", len(locations)))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(locations)
}

// filterFromQuery coerces the raw query parameters into a Filter. Empty
// parameters become absent predicates rather than empty-value matches.
func filterFromQuery(source, from, to string) (Filter, error) {
	src, err := OptionalField("source", source, func(s string) (string, error) { return s, nil })
	if err != nil {
		return Filter{}, err
	}

	fromTime, err := OptionalField("from", from, ParseTime)
	if err != nil {
		return Filter{}, err
	}

	toTime, err := OptionalField("to", to, ParseTime)
	if err != nil {
		return Filter{}, err
	}

	return Filter{Source: src, From: fromTime, To: toTime}, nil
}

// writeFailure maps a service error to its boundary response. Validation
// failures are the client's fault and carry a fixed message; anything from
// the store is a generic server error with the cause kept in the logs.
func (h *Handler) writeFailure(w http.ResponseWriter, span trace.Span, err error, storageMsg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var malformed *MalformedFieldError
	switch {
	case errors.Is(err, ErrInvalidSource):
		slog.Warn("Rejected invalid source", config.ErrAttr(err))
		http.Error(w, "Invalid source", http.StatusBadRequest)
	case errors.As(err, &malformed):
		slog.Warn("Rejected malformed field", config.ErrAttr(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("Store call failed", config.ErrAttr(err))
		http.Error(w, storageMsg, http.StatusInternalServerError)
	}
}
