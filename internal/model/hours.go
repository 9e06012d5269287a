package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DayHours is one weekday's opening window, "HH:MM" local clock strings.
type DayHours struct {
	IsOpen bool   `json:"isOpen" yaml:"is_open"`
	Start  string `json:"start" yaml:"start"`
	End    string `json:"end" yaml:"end"`
}

// dayHoursWire accepts the older open/close field names next to start/end.
type dayHoursWire struct {
	IsOpen bool   `json:"isOpen" yaml:"is_open"`
	Start  string `json:"start" yaml:"start"`
	End    string `json:"end" yaml:"end"`
	Open   string `json:"open" yaml:"open"`
	Close  string `json:"close" yaml:"close"`
}

func (w dayHoursWire) dayHours() DayHours {
	d := DayHours{IsOpen: w.IsOpen, Start: w.Start, End: w.End}
	if d.Start == "" {
		d.Start = w.Open
	}
	if d.End == "" {
		d.End = w.Close
	}
	return d
}

func (d *DayHours) UnmarshalJSON(data []byte) error {
	var w dayHoursWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = w.dayHours()
	return nil
}

func (d *DayHours) UnmarshalYAML(value *yaml.Node) error {
	var w dayHoursWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	*d = w.dayHours()
	return nil
}

// WeeklyHours maps each weekday (Sunday-Saturday) to its opening window.
type WeeklyHours map[time.Weekday]DayHours

var dayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// DayKey returns the short lowercase key used on the wire ("sun".."sat").
func DayKey(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return ""
	}
	return dayKeys[d]
}

// ParseWeekday accepts "sun", "Sunday", "SUN" and the like.
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, k := range dayKeys {
		if key == k || key == strings.ToLower(time.Weekday(i).String()) {
			return time.Weekday(i), nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// weeklyFromKeyed drops keys that name no weekday; one bad entry must not
// sink the business it belongs to.
func weeklyFromKeyed(raw map[string]DayHours) WeeklyHours {
	out := make(WeeklyHours, len(raw))
	for k, v := range raw {
		day, err := ParseWeekday(k)
		if err != nil {
			continue
		}
		out[day] = v
	}
	return out
}

func (w WeeklyHours) keyed() map[string]DayHours {
	out := make(map[string]DayHours, len(w))
	for day, v := range w {
		if key := DayKey(day); key != "" {
			out[key] = v
		}
	}
	return out
}

func (w *WeeklyHours) UnmarshalJSON(data []byte) error {
	var raw map[string]DayHours
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*w = nil
		return nil
	}
	*w = weeklyFromKeyed(raw)
	return nil
}

func (w WeeklyHours) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.keyed())
}

func (w *WeeklyHours) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]DayHours
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*w = nil
		return nil
	}
	*w = weeklyFromKeyed(raw)
	return nil
}

func (w WeeklyHours) MarshalYAML() (interface{}, error) {
	return w.keyed(), nil
}
