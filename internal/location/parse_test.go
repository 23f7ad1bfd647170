package location

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalFieldEmptyMeansAbsent(t *testing.T) {
	parsed, err := OptionalField("source", "", func(s string) (string, error) { return s, nil })
	require.NoError(t, err)
	assert.Nil(t, parsed, "an empty parameter must become an absent predicate, not an empty value")
}

func TestOptionalFieldParsesValue(t *testing.T) {
	parsed, err := OptionalField("from", "2026-08-30 12:00:00", ParseTime)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), *parsed)
}

func TestOptionalFieldParseFailure(t *testing.T) {
	parsed, err := OptionalField("from", "not-a-timestamp", ParseTime)
	assert.Nil(t, parsed)

	var malformed *MalformedFieldError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "from", malformed.Field)
	assert.Contains(t, err.Error(), "from")
}

func TestTimestampJSONRoundTrip(t *testing.T) {
	ts := Timestamp{time.Date(2026, 8, 30, 9, 41, 7, 0, time.UTC)}

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-30 09:41:07"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Equal(back.Time))
}

func TestTimestampFormatsAsUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	ts := Timestamp{time.Date(2026, 8, 30, 7, 0, 0, 0, est)}

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-30 12:00:00"`, string(data))
}

func TestParseTimeRoundTripsStoredValues(t *testing.T) {
	// a createdAt rendered by the API must parse back as a filter bound
	stored := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rendered := stored.Format(TimeLayout)

	parsed, err := ParseTime(rendered)
	require.NoError(t, err)
	assert.True(t, stored.Equal(parsed))
}
