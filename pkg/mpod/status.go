package mpod

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// StatusBit is one condition bit of WIENER-CRATE-MIB::outputStatus.
// The positions follow the MIB's BITS numbering.
type StatusBit uint

const (
	BitOutputOn StatusBit = iota
	BitOutputInhibit
	BitOutputFailureMinSenseVoltage
	BitOutputFailureMaxSenseVoltage
	BitOutputFailureMaxTerminalVoltage
	BitOutputFailureMaxCurrent
	BitOutputFailureMaxTemperature
	BitOutputFailureMaxPower
	BitOutputFailureTimeout
	BitOutputCurrentLimited
	BitOutputRampUp
	BitOutputRampDown
	BitOutputEnableKill
	BitOutputEmergencyOff
	BitOutputAdjusting
	BitOutputConstantVoltage
	BitOutputLowCurrentRange
	BitOutputCurrentBoundsExceeded
	BitOutputFailureCurrentLimit

	numStatusBits
)

var statusBitNames = map[StatusBit]string{
	BitOutputOn:                        "outputOn",
	BitOutputInhibit:                   "outputInhibit",
	BitOutputFailureMinSenseVoltage:    "outputFailureMinSenseVoltage",
	BitOutputFailureMaxSenseVoltage:    "outputFailureMaxSenseVoltage",
	BitOutputFailureMaxTerminalVoltage: "outputFailureMaxTerminalVoltage",
	BitOutputFailureMaxCurrent:         "outputFailureMaxCurrent",
	BitOutputFailureMaxTemperature:     "outputFailureMaxTemperature",
	BitOutputFailureMaxPower:           "outputFailureMaxPower",
	BitOutputFailureTimeout:            "outputFailureTimeout",
	BitOutputCurrentLimited:            "outputCurrentLimited",
	BitOutputRampUp:                    "outputRampUp",
	BitOutputRampDown:                  "outputRampDown",
	BitOutputEnableKill:                "outputEnableKill",
	BitOutputEmergencyOff:              "outputEmergencyOff",
	BitOutputAdjusting:                 "outputAdjusting",
	BitOutputConstantVoltage:           "outputConstantVoltage",
	BitOutputLowCurrentRange:           "outputLowCurrentRange",
	BitOutputCurrentBoundsExceeded:     "outputCurrentBoundsExceeded",
	BitOutputFailureCurrentLimit:       "outputFailureCurrentLimit",
}

// reportOrder fixes the rendering order of conditions: terminal and
// fault conditions first, then operational state. Output must be
// stable and diff-able across runs.
var reportOrder = []StatusBit{
	BitOutputEmergencyOff,
	BitOutputFailureMinSenseVoltage,
	BitOutputFailureMaxSenseVoltage,
	BitOutputFailureMaxTerminalVoltage,
	BitOutputFailureMaxCurrent,
	BitOutputFailureMaxTemperature,
	BitOutputFailureMaxPower,
	BitOutputFailureTimeout,
	BitOutputFailureCurrentLimit,
	BitOutputCurrentBoundsExceeded,
	BitOutputInhibit,
	BitOutputEnableKill,
	BitOutputOn,
	BitOutputRampUp,
	BitOutputRampDown,
	BitOutputCurrentLimited,
	BitOutputAdjusting,
	BitOutputConstantVoltage,
	BitOutputLowCurrentRange,
}

const knownStatusMask = uint32(1<<numStatusBits) - 1

const failureMask = uint32(1<<BitOutputFailureMinSenseVoltage |
	1<<BitOutputFailureMaxSenseVoltage |
	1<<BitOutputFailureMaxTerminalVoltage |
	1<<BitOutputFailureMaxCurrent |
	1<<BitOutputFailureMaxTemperature |
	1<<BitOutputFailureMaxPower |
	1<<BitOutputFailureTimeout |
	1<<BitOutputFailureCurrentLimit |
	1<<BitOutputEmergencyOff)

// StatusFlags is the decoded form of one outputStatus word. Known is
// false when no usable reply arrived; that state is reported as
// "unknown", never as "off", so a dead crate cannot masquerade as a
// powered-down channel.
type StatusFlags struct {
	Raw   uint32
	Known bool
}

// DecodeStatus interprets a raw status word. It is total: every 32-bit
// value decodes to something, unrecognized bits surface verbatim in
// Conditions.
func DecodeStatus(raw uint32) StatusFlags {
	return StatusFlags{Raw: raw, Known: true}
}

// UnknownStatus is the sentinel for a missing or malformed reply.
func UnknownStatus() StatusFlags {
	return StatusFlags{}
}

// Has reports whether one condition bit is set.
func (s StatusFlags) Has(bit StatusBit) bool {
	return s.Known && s.Raw&(1<<bit) != 0
}

// Conditions lists every set condition in the fixed report order.
// Bits beyond the MIB's definition render as one unknown(0x...) entry.
func (s StatusFlags) Conditions() []string {
	if !s.Known {
		return []string{"unknown"}
	}

	var conditions []string

	for _, bit := range reportOrder {
		if s.Has(bit) {
			conditions = append(conditions, statusBitNames[bit])
		}
	}

	if extra := s.Raw &^ knownStatusMask; extra != 0 {
		conditions = append(conditions, fmt.Sprintf("unknown(0x%08x)", extra))
	}

	return conditions
}

// Summary collapses the flag set to the one word an operator scans
// for. Terminal conditions win over operational state.
func (s StatusFlags) Summary() string {
	switch {
	case !s.Known:
		return "unknown"
	case s.Has(BitOutputEmergencyOff):
		return "emergency off"
	case s.Raw&failureMask != 0:
		return "fault"
	case s.Has(BitOutputInhibit):
		return "inhibited"
	case s.Has(BitOutputRampUp):
		return "ramping up"
	case s.Has(BitOutputRampDown):
		return "ramping down"
	case s.Has(BitOutputOn):
		return "on"
	default:
		return "off"
	}
}

// String renders the summary plus any conditions beyond it.
func (s StatusFlags) String() string {
	conditions := s.Conditions()
	if !s.Known || len(conditions) == 0 {
		return s.Summary()
	}

	return fmt.Sprintf("%s [%s]", s.Summary(), strings.Join(conditions, " "))
}

// statusWord converts the MIB's BITS octet string into the 32-bit
// status word used by DecodeStatus. BITS number bit 0 as the high bit
// of the first octet.
func statusWord(octets []byte) uint32 {
	var word uint32

	for i, octet := range octets {
		if i > 3 {
			break
		}

		for bit := 0; bit < 8; bit++ {
			if octet&(0x80>>bit) != 0 {
				word |= 1 << (i*8 + bit)
			}
		}
	}

	return word
}

var bitListPattern = regexp.MustCompile(`\((\d+)\)`)

// parseStatusText recovers the status word from net-snmp textual
// output, e.g. `BITS: 80 00 outputOn(0)`. The named bit list is
// authoritative; the hex dump is only a fallback.
func parseStatusText(text string) (uint32, error) {
	if matches := bitListPattern.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		var word uint32

		for _, m := range matches {
			bit, err := strconv.Atoi(m[1])
			if err != nil || bit > 31 {
				return 0, fmt.Errorf("%w: %q", ErrMalformedReply, text)
			}

			word |= 1 << bit
		}

		return word, nil
	}

	rest, found := strings.CutPrefix(strings.TrimSpace(text), "BITS:")
	if !found {
		return 0, fmt.Errorf("%w: %q", ErrMalformedReply, text)
	}

	var octets []byte

	for _, hex := range strings.Fields(rest) {
		octet, err := strconv.ParseUint(hex, 16, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedReply, text)
		}

		octets = append(octets, byte(octet))
	}

	return statusWord(octets), nil
}

// StatusFromResult decodes the status reply of one print command. A
// failed command or an unusable value maps to the unknown state.
func StatusFromResult(r Result) StatusFlags {
	if r.Err != nil || r.Value == nil {
		return UnknownStatus()
	}

	switch v := r.Value.(type) {
	case uint32:
		return DecodeStatus(v)
	case int:
		if v < 0 {
			return UnknownStatus()
		}

		return DecodeStatus(uint32(v))
	case []byte:
		return DecodeStatus(statusWord(v))
	case string:
		word, err := parseStatusText(v)
		if err != nil {
			return UnknownStatus()
		}

		return DecodeStatus(word)
	default:
		return UnknownStatus()
	}
}
