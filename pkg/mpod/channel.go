package mpod

import (
	"encoding/json"
	"fmt"
)

// SenseRails bounds the sense voltage supervision window for a channel.
type SenseRails struct {
	Min float64
	Max float64
}

// UnmarshalJSON accepts the configuration form, a two-element
// [min, max] array.
func (s *SenseRails) UnmarshalJSON(b []byte) error {
	var rails []float64
	if err := json.Unmarshal(b, &rails); err != nil {
		return err
	}

	if len(rails) != 2 {
		return fmt.Errorf("%w: got %d values", ErrInvalidSenseRails, len(rails))
	}

	s.Min = rails[0]
	s.Max = rails[1]

	return nil
}

// MarshalJSON renders the configuration form.
func (s SenseRails) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{s.Min, s.Max})
}

// ChannelSpec is one channel entry as written in the configuration
// file. Slot and Index are pointers so an absent address is
// distinguishable from slot 0.
type ChannelSpec struct {
	Slot       *int        `json:"slot"`
	Index      *int        `json:"index"`
	Voltage    float64     `json:"voltage"`
	Current    float64     `json:"current"`
	RiseRate   float64     `json:"rise_rate,omitempty"`
	FallRate   float64     `json:"fall_rate,omitempty"`
	SenseRails *SenseRails `json:"sense_rails,omitempty"`
	Group      string      `json:"group,omitempty"`
}

// Channel is one controllable output, validated against the crate
// capacity and immutable afterwards.
type Channel struct {
	Name       string
	Slot       int
	Index      int
	Voltage    float64
	Current    float64
	RiseRate   float64
	FallRate   float64
	SenseRails *SenseRails
	Group      string
}

// newChannel validates a spec against the crate capacity bounds.
func newChannel(name string, spec *ChannelSpec, maxSlots, channelsPerSlot int) (Channel, error) {
	if spec == nil {
		return Channel{}, fmt.Errorf("%w: %s: empty entry", ErrInvalidChannelSpec, name)
	}

	if spec.Slot == nil {
		return Channel{}, fmt.Errorf("%w: %s: missing slot", ErrInvalidChannelSpec, name)
	}

	if spec.Index == nil {
		return Channel{}, fmt.Errorf("%w: %s: missing index", ErrInvalidChannelSpec, name)
	}

	slot, index := *spec.Slot, *spec.Index

	if slot < 0 || slot >= maxSlots {
		return Channel{}, fmt.Errorf("%w: %s: slot %d outside [0,%d)", ErrInvalidChannelSpec, name, slot, maxSlots)
	}

	if index < 0 || index >= channelsPerSlot {
		return Channel{}, fmt.Errorf("%w: %s: index %d outside [0,%d)", ErrInvalidChannelSpec, name, index, channelsPerSlot)
	}

	if spec.SenseRails != nil && spec.SenseRails.Min > spec.SenseRails.Max {
		return Channel{}, fmt.Errorf("%w: %s: min above max", ErrInvalidSenseRails, name)
	}

	return Channel{
		Name:       name,
		Slot:       slot,
		Index:      index,
		Voltage:    spec.Voltage,
		Current:    spec.Current,
		RiseRate:   spec.RiseRate,
		FallRate:   spec.FallRate,
		SenseRails: spec.SenseRails,
		Group:      spec.Group,
	}, nil
}

// OutputName is the vendor's display name for this channel ("u201").
func (c *Channel) OutputName() string {
	return OutputName(c.Slot, c.Index)
}

// OIDFor resolves a field of the output table for this channel.
func (c *Channel) OIDFor(field Field) (string, error) {
	return Resolve(field, c.Slot, c.Index)
}

// SettableOIDFor resolves a writable field for this channel; read-only
// fields fail with ErrReadOnlyField.
func (c *Channel) SettableOIDFor(field Field) (string, error) {
	return ResolveSettable(field, c.Slot, c.Index)
}
