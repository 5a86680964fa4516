package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Field names the service reads or writes. Every other field of a snapshot
// belongs to the reporting agent and is passed through untouched.
const (
	FieldMachineName = "MachineName"
	FieldServerTime  = "ServerTime"
)

// ServerTimeLayout formats the receipt time as HH:MM:SS on the server's clock.
const ServerTimeLayout = "15:04:05"

var (
	// ErrInvalidJSON is returned when a body is not a single JSON object.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrMissingMachineName is returned when MachineName is absent, empty or
	// not a string.
	ErrMissingMachineName = errors.New("MachineName is required")
)

// Snapshot is the latest monitoring data reported by one machine.
type Snapshot map[string]any

// DecodeSnapshot reads exactly one JSON object from r and checks that it
// names its machine. Numbers are decoded as json.Number so they are written
// back out exactly as the agent sent them.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: body is null", ErrInvalidJSON)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidJSON)
	}
	if _, ok := s.MachineName(); !ok {
		return nil, ErrMissingMachineName
	}
	return s, nil
}

// MachineName returns the snapshot's key. ok is false when the field is
// missing, empty or not a string.
func (s Snapshot) MachineName() (name string, ok bool) {
	name, ok = s[FieldMachineName].(string)
	return name, ok && name != ""
}

// Stamp records t as the receipt time, replacing any ServerTime the agent
// supplied.
func (s Snapshot) Stamp(t time.Time) {
	s[FieldServerTime] = t.Format(ServerTimeLayout)
}
