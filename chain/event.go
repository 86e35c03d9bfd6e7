package chain

import (
	"encoding/json"
	"strings"
)

// EventLogPrefix starts every structured event log line.
const EventLogPrefix = "EVENT_JSON:"

// Event is a NEP-297 structured event.
type Event struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     any    `json:"data,omitempty"`
}

// String renders the event as a log line.
func (e Event) String() string {
	b, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return EventLogPrefix + string(b)
}

// DecodeData unmarshals event payload into v.
func (e Event) DecodeData(v any) error {
	b, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// ParseEvent extracts an event from a log line.
func ParseEvent(line string) (Event, bool) {
	s, ok := strings.CutPrefix(line, EventLogPrefix)
	if !ok {
		return Event{}, false
	}
	var raw struct {
		Standard string          `json:"standard"`
		Version  string          `json:"version"`
		Event    string          `json:"event"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw.Standard == "" || raw.Event == "" {
		return Event{}, false
	}
	ev := Event{Standard: raw.Standard, Version: raw.Version, Event: raw.Event}
	if len(raw.Data) != 0 {
		ev.Data = raw.Data
	}
	return ev, true
}
