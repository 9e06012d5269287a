package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWeeklyHoursJSON(t *testing.T) {
	data := []byte(`{
		"sun": {"isOpen": false, "start": "00:00", "end": "00:00"},
		"mon": {"isOpen": true, "start": "09:00", "end": "18:00"},
		"Tuesday": {"isOpen": true, "open": "10:00", "close": "20:00"}
	}`)

	var hours WeeklyHours
	require.NoError(t, json.Unmarshal(data, &hours))

	assert.Len(t, hours, 3)
	assert.False(t, hours[time.Sunday].IsOpen)
	assert.Equal(t, DayHours{IsOpen: true, Start: "09:00", End: "18:00"}, hours[time.Monday])
	assert.Equal(t, DayHours{IsOpen: true, Start: "10:00", End: "20:00"}, hours[time.Tuesday])

	out, err := json.Marshal(hours)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"tue":{"isOpen":true,"start":"10:00","end":"20:00"}`)
}

func TestWeeklyHoursUnknownDaySkipped(t *testing.T) {
	var hours WeeklyHours
	err := json.Unmarshal([]byte(`{"funday": {"isOpen": true}, "mon": {"isOpen": true, "start": "09:00", "end": "18:00"}}`), &hours)
	require.NoError(t, err)
	assert.Len(t, hours, 1)
	assert.True(t, hours[time.Monday].IsOpen)

	var y WeeklyHours
	require.NoError(t, yaml.Unmarshal([]byte("holiday: {is_open: true}\n"), &y))
	assert.Empty(t, y)
}

func TestFeedSurvivesUnknownDayKey(t *testing.T) {
	data := []byte(`[
		{"id": "a", "detailedHours": {"someday": {"isOpen": true}}},
		{"id": "b", "detailedHours": {"fri": {"isOpen": true, "start": "10:00", "end": "18:00"}}}
	]`)

	var feed []Business
	require.NoError(t, json.Unmarshal(data, &feed))
	require.Len(t, feed, 2)
	assert.Empty(t, feed[0].WeeklyHours)
	assert.Equal(t, "10:00", feed[1].WeeklyHours[time.Friday].Start)
}

func TestWeeklyHoursYAML(t *testing.T) {
	data := []byte(`
sat:
  is_open: true
  start: "08:30"
  end: "14:00"
fri:
  is_open: true
  open: "09:00"
  close: "22:00"
`)
	var hours WeeklyHours
	require.NoError(t, yaml.Unmarshal(data, &hours))

	assert.Equal(t, DayHours{IsOpen: true, Start: "08:30", End: "14:00"}, hours[time.Saturday])
	assert.Equal(t, DayHours{IsOpen: true, Start: "09:00", End: "22:00"}, hours[time.Friday])
}

func TestBusinessJSONFromFeed(t *testing.T) {
	data := []byte(`{
		"id": "shop-1",
		"name": "Kedai Gunting",
		"distance": 3.2,
		"rating": 4.7,
		"bookingsCount": 120,
		"isVerified": true,
		"services": [{"id": "s1", "name": "Haircut", "price": 25, "duration": 30}],
		"detailedHours": {"mon": {"isOpen": true, "start": "09:00", "end": "18:00"}}
	}`)

	var b Business
	require.NoError(t, json.Unmarshal(data, &b))

	assert.Equal(t, 3.2, b.Distance())
	assert.True(t, b.WeeklyHours[time.Monday].IsOpen)

	svc, ok := b.ServiceByID("s1")
	require.True(t, ok)
	assert.Equal(t, 30, svc.Duration)

	_, ok = b.ServiceByID("missing")
	assert.False(t, ok)
}

func TestMissingDistanceIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Business{}.Distance())
	assert.Equal(t, 7.5, Business{DistanceKm: Km(7.5)}.Distance())
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("SUN")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, day)

	day, err = ParseWeekday("saturday")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, day)

	assert.Equal(t, "wed", DayKey(time.Wednesday))
	assert.Equal(t, "", DayKey(time.Weekday(9)))
}
