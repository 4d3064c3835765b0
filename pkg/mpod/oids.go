// Package mpod controls output channels of a Wiener MPOD power-supply
// crate through the OIDs published by the WIENER-CRATE-MIB.
package mpod

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names a column of the WIENER-CRATE-MIB outputTable.
type Field string

const (
	FieldOutputName                       Field = "outputName"
	FieldOutputStatus                     Field = "outputStatus"
	FieldOutputMeasurementSenseVoltage    Field = "outputMeasurementSenseVoltage"
	FieldOutputMeasurementTerminalVoltage Field = "outputMeasurementTerminalVoltage"
	FieldOutputMeasurementCurrent         Field = "outputMeasurementCurrent"
	FieldOutputSwitch                     Field = "outputSwitch"
	FieldOutputVoltage                    Field = "outputVoltage"
	FieldOutputCurrent                    Field = "outputCurrent"
	FieldOutputVoltageRiseRate            Field = "outputVoltageRiseRate"
	FieldOutputVoltageFallRate            Field = "outputVoltageFallRate"
	FieldOutputSupervisionMinSenseVoltage Field = "outputSupervisionMinSenseVoltage"
	FieldOutputSupervisionMaxSenseVoltage Field = "outputSupervisionMaxSenseVoltage"
)

// outputEntryOID is WIENER-CRATE-MIB::outputEntry. Every field below is
// a column of this table, indexed by the output number.
const outputEntryOID = ".1.3.6.1.4.1.19947.1.3.2.1"

// The two tables split the MIB columns by access. SET commands can only
// be built from settableColumns, so a write to a status or measurement
// field is unrepresentable rather than merely checked.
var readOnlyColumns = map[Field]int{
	FieldOutputName:                       2,
	FieldOutputStatus:                     4,
	FieldOutputMeasurementSenseVoltage:    5,
	FieldOutputMeasurementTerminalVoltage: 6,
	FieldOutputMeasurementCurrent:         7,
}

var settableColumns = map[Field]int{
	FieldOutputSwitch:                     9,
	FieldOutputVoltage:                    10,
	FieldOutputCurrent:                    12,
	FieldOutputVoltageRiseRate:            13,
	FieldOutputVoltageFallRate:            14,
	FieldOutputSupervisionMinSenseVoltage: 16,
	FieldOutputSupervisionMaxSenseVoltage: 17,
}

// mibIndex is the vendor encoding of a channel address: outputs are
// numbered u0..u7 in slot 0, u100..u107 in slot 1 and so on, and the
// SNMP table index is that number plus one.
func mibIndex(slot, index int) int {
	return slot*100 + index + 1
}

// OutputName is the vendor's display name for a channel, e.g. "u201"
// for slot 2 index 1.
func OutputName(slot, index int) string {
	return fmt.Sprintf("u%d", slot*100+index)
}

// Resolve translates a symbolic field name and channel address into a
// concrete OID. Any field of the output table may be resolved for a GET.
func Resolve(field Field, slot, index int) (string, error) {
	column, ok := readOnlyColumns[field]
	if !ok {
		if column, ok = settableColumns[field]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return fmt.Sprintf("%s.%d.%d", outputEntryOID, column, mibIndex(slot, index)), nil
}

// ResolveSettable is Resolve restricted to writable fields. Resolving a
// read-only field fails with ErrReadOnlyField so illegal writes are
// rejected before any command exists.
func ResolveSettable(field Field, slot, index int) (string, error) {
	column, ok := settableColumns[field]
	if !ok {
		if _, ok = readOnlyColumns[field]; ok {
			return "", fmt.Errorf("%w: %s", ErrReadOnlyField, field)
		}

		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	return fmt.Sprintf("%s.%d.%d", outputEntryOID, column, mibIndex(slot, index)), nil
}

// ParseOID recovers the field and channel address from an OID produced
// by Resolve. Resolution is a lossless encoding; this is its inverse.
func ParseOID(oid string) (Field, int, int, error) {
	rest, found := strings.CutPrefix(oid, outputEntryOID+".")
	if !found {
		return "", 0, 0, fmt.Errorf("%w: %s", ErrNotAnOutputOID, oid)
	}

	parts := strings.Split(rest, ".")
	if len(parts) != 2 {
		return "", 0, 0, fmt.Errorf("%w: %s", ErrNotAnOutputOID, oid)
	}

	column, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %s", ErrNotAnOutputOID, oid)
	}

	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 1 {
		return "", 0, 0, fmt.Errorf("%w: %s", ErrNotAnOutputOID, oid)
	}

	field, err := fieldForColumn(column)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %s", err, oid)
	}

	idx--

	return field, idx / 100, idx % 100, nil
}

func fieldForColumn(column int) (Field, error) {
	for field, c := range readOnlyColumns {
		if c == column {
			return field, nil
		}
	}

	for field, c := range settableColumns {
		if c == column {
			return field, nil
		}
	}

	return "", ErrUnknownField
}
