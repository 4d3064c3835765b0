package mpod

import (
	"fmt"
	"strconv"
)

// Action is one operator-requested verb.
type Action string

const (
	// ActionEnable switches channels on.
	ActionEnable Action = "enable"
	// ActionDisable switches channels off.
	ActionDisable Action = "disable"
	// ActionProgram writes the configured setpoints (voltage, current
	// limit, ramp rates, sense rails) without touching the switch.
	ActionProgram Action = "program"
	// ActionPrint queries the status bitmask of each channel.
	ActionPrint Action = "print"
	// ActionStatus queries setpoints and measurements of each channel.
	ActionStatus Action = "status"
)

// SNMPVersion represents supported SNMP versions.
type SNMPVersion string

const (
	Version1  SNMPVersion = "v1"
	Version2c SNMPVersion = "v2c"
)

// Operation is the SNMP primitive a command performs.
type Operation string

const (
	OpGet Operation = "get"
	OpSet Operation = "set"
)

// ValueKind selects the value syntax used for a SET. The letters match
// the net-snmp snmpset type characters.
type ValueKind string

const (
	KindInteger ValueKind = "i"
	KindFloat   ValueKind = "F"
)

// SnmpCommand is one fully resolved get/set against the crate. Commands
// are built per action, dispatched once and discarded.
type SnmpCommand struct {
	Channel    string
	Field      Field
	Op         Operation
	OID        string
	Kind       ValueKind
	IntValue   int
	FloatValue float64
}

// ValueString renders the SET value the way snmpset expects it.
func (c SnmpCommand) ValueString() string {
	switch c.Kind {
	case KindInteger:
		return strconv.Itoa(c.IntValue)
	case KindFloat:
		return strconv.FormatFloat(c.FloatValue, 'f', -1, 64)
	default:
		return ""
	}
}

// String renders the command for logs and dry-run output.
func (c SnmpCommand) String() string {
	if c.Op == OpSet {
		return fmt.Sprintf("set %s %s %s (%s %s)", c.OID, string(c.Kind), c.ValueString(), c.Channel, c.Field)
	}

	return fmt.Sprintf("get %s (%s %s)", c.OID, c.Channel, c.Field)
}

// Result pairs a dispatched command with its outcome. Exactly one of
// Value and Err is meaningful; a dry run leaves both unset.
type Result struct {
	Command SnmpCommand
	Value   interface{}
	Err     error
}

// Failures returns the results whose command did not succeed.
func Failures(results []Result) []Result {
	var failed []Result

	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}

	return failed
}
