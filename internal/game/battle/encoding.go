package battle

import (
	"encoding/json"
	"fmt"
)

// envelope is the kind-tagged wire form of one event. Field names and enum
// tags are preserved so stored logs stay readable by humans and machines.
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalEvents encodes an event log as a JSON array of kind-tagged envelopes.
//
// Postcondition: UnmarshalEvents(MarshalEvents(events)) restores the exact
// event sequence.
func MarshalEvents(events []Event) ([]byte, error) {
	envelopes := make([]envelope, 0, len(events))
	for i, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("battle: marshalling event %d (%s): %w", i, ev.EventKind(), err)
		}
		envelopes = append(envelopes, envelope{Kind: ev.EventKind(), Data: data})
	}
	return json.Marshal(envelopes)
}

// UnmarshalEvents decodes a JSON event log produced by MarshalEvents.
//
// Postcondition: returns the events in stored order, or an error naming the
// first envelope with an unknown kind or malformed payload.
func UnmarshalEvents(data []byte) ([]Event, error) {
	var envelopes []envelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, fmt.Errorf("battle: unmarshalling event log: %w", err)
	}

	events := make([]Event, 0, len(envelopes))
	for i, env := range envelopes {
		var (
			ev  Event
			err error
		)
		switch env.Kind {
		case "roll":
			var e Roll
			err = json.Unmarshal(env.Data, &e)
			ev = e
		case "attack":
			var e Attack
			err = json.Unmarshal(env.Data, &e)
			ev = e
		case "heal":
			var e Heal
			err = json.Unmarshal(env.Data, &e)
			ev = e
		case "ability_use":
			var e AbilityUse
			err = json.Unmarshal(env.Data, &e)
			ev = e
		case "health_changed":
			var e HealthChanged
			err = json.Unmarshal(env.Data, &e)
			ev = e
		case "battle_ended":
			var e Ended
			err = json.Unmarshal(env.Data, &e)
			ev = e
		default:
			return nil, fmt.Errorf("battle: event %d has unknown kind %q", i, env.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("battle: unmarshalling event %d (%s): %w", i, env.Kind, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
