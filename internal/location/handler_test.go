package location

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failStore struct {
	err error
}

func (f *failStore) InsertLocation(context.Context, Input) (*Location, error) {
	return nil, f.err
}

func (f *failStore) SelectLocations(context.Context, Filter) ([]Location, error) {
	return nil, f.err
}

func newTestRouter(store Store) *mux.Router {
	router := mux.NewRouter()
	NewHandler(router, NewService(store))
	return router
}

func postLocation(t *testing.T, router *mux.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/locations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getLocations(t *testing.T, router *mux.Router, params url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := "/locations"
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateLocationHandler(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	rec := postLocation(t, router, `{"source": "gps", "latitude": 48.8584, "longitude": 2.2945}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Record added", rec.Body.String())
	require.Len(t, store.rows, 1)
	assert.Equal(t, "gps", store.rows[0].Source)
}

func TestCreateLocationHandlerInvalidSource(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	rec := postLocation(t, router, `{"source": "bad!source", "latitude": 1, "longitude": 2}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid source", strings.TrimSpace(rec.Body.String()))
	assert.Empty(t, store.rows, "a rejected request must not reach the store")
}

func TestCreateLocationHandlerBadPayload(t *testing.T) {
	router := newTestRouter(&memStore{})

	rec := postLocation(t, router, `{"source": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLocationHandlerStorageFailure(t *testing.T) {
	router := newTestRouter(&failStore{err: errors.New("connection reset")})

	rec := postLocation(t, router, `{"source": "gps", "latitude": 1, "longitude": 2}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "No record added", strings.TrimSpace(rec.Body.String()))
	// the underlying cause stays in the logs, never in the response
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestListLocationsHandlerNoFilter(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	postLocation(t, router, `{"source": "gps", "latitude": 1, "longitude": 2}`)
	postLocation(t, router, `{"source": "wifi", "latitude": 3, "longitude": 4}`)

	rec := getLocations(t, router, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)

	ids := map[int64]bool{}
	for _, loc := range got {
		ids[loc.ID] = true
	}
	assert.Len(t, ids, 2, "no row duplicated or omitted")

	// createdAt uses the fixed second-precision layout
	assert.Regexp(t, `"createdAt":"\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}"`, rec.Body.String())
}

func TestListLocationsHandlerSourceFilter(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	postLocation(t, router, `{"source": "gps", "latitude": 1, "longitude": 2}`)
	postLocation(t, router, `{"source": "wifi", "latitude": 3, "longitude": 4}`)
	postLocation(t, router, `{"source": "gps", "latitude": 5, "longitude": 6}`)

	rec := getLocations(t, router, url.Values{"source": {"gps"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var got []Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	for _, loc := range got {
		assert.Equal(t, "gps", loc.Source)
	}
}

func TestListLocationsHandlerEmptyParamsMeanNoFilter(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	postLocation(t, router, `{"source": "gps", "latitude": 1, "longitude": 2}`)

	// explicitly empty parameters are absent predicates, not empty-string matches
	rec := getLocations(t, router, url.Values{"source": {""}, "from": {""}, "to": {""}})
	require.Equal(t, http.StatusOK, rec.Code)

	var got []Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestListLocationsHandlerInvalidSource(t *testing.T) {
	router := newTestRouter(&memStore{})

	rec := getLocations(t, router, url.Values{"source": {"bad!source"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid source", strings.TrimSpace(rec.Body.String()))
}

func TestListLocationsHandlerMalformedBound(t *testing.T) {
	router := newTestRouter(&memStore{})

	rec := getLocations(t, router, url.Values{"from": {"yesterday"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "from")
}

func TestListLocationsHandlerInclusiveBounds(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	t1 := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)
	store.seed(Location{ID: 1, Source: "gps", CreatedAt: Timestamp{t1.Add(-time.Second)}})
	store.seed(Location{ID: 2, Source: "gps", CreatedAt: Timestamp{t1}})
	store.seed(Location{ID: 3, Source: "gps", CreatedAt: Timestamp{t1.Add(30 * time.Minute)}})
	store.seed(Location{ID: 4, Source: "gps", CreatedAt: Timestamp{t2}})
	store.seed(Location{ID: 5, Source: "gps", CreatedAt: Timestamp{t2.Add(time.Second)}})

	rec := getLocations(t, router, url.Values{
		"from": {t1.Format(TimeLayout)},
		"to":   {t2.Format(TimeLayout)},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got []Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)

	ids := map[int64]bool{}
	for _, loc := range got {
		ids[loc.ID] = true
	}
	assert.True(t, ids[2], "row at the lower bound is included")
	assert.True(t, ids[3])
	assert.True(t, ids[4], "row at the upper bound is included")
}

func TestListLocationsHandlerStorageFailure(t *testing.T) {
	router := newTestRouter(&failStore{err: errors.New("timeout")})

	rec := getLocations(t, router, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "No records fetched", strings.TrimSpace(rec.Body.String()))
}

func TestCreatedAtRoundTripsAsFilterBound(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	postLocation(t, router, `{"source": "gps", "latitude": 1, "longitude": 2}`)

	rec := getLocations(t, router, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw []struct {
		ID        int64  `json:"id"`
		CreatedAt string `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw, 1)

	// the rendered createdAt, fed back as from=to, matches the same record
	rec = getLocations(t, router, url.Values{
		"from": {raw[0].CreatedAt},
		"to":   {raw[0].CreatedAt},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got []Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, raw[0].ID, got[0].ID)
}
