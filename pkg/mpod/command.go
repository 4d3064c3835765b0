package mpod

import "fmt"

const (
	switchOn  = 1
	switchOff = 0
)

// statusFields are the per-channel fields queried by the status
// action, in report order.
var statusFields = []Field{
	FieldOutputSwitch,
	FieldOutputVoltage,
	FieldOutputCurrent,
	FieldOutputSupervisionMinSenseVoltage,
	FieldOutputSupervisionMaxSenseVoltage,
	FieldOutputVoltageRiseRate,
	FieldOutputVoltageFallRate,
	FieldOutputMeasurementTerminalVoltage,
	FieldOutputMeasurementCurrent,
}

// BuildCommands translates one action over an ordered channel sequence
// into the ordered SNMP commands that realize it. The command order
// follows the channel order exactly; devices process sets sequentially
// and operators rely on a deterministic power-up sequence. Building
// never touches the network.
func BuildCommands(action Action, channels []Channel) ([]SnmpCommand, error) {
	var commands []SnmpCommand

	for i := range channels {
		channel := &channels[i]

		var (
			cmds []SnmpCommand
			err  error
		)

		switch action {
		case ActionEnable:
			cmds, err = switchCommand(channel, switchOn)
		case ActionDisable:
			cmds, err = switchCommand(channel, switchOff)
		case ActionProgram:
			cmds, err = programCommands(channel)
		case ActionPrint:
			cmds, err = getCommands(channel, FieldOutputStatus)
		case ActionStatus:
			cmds, err = getCommands(channel, statusFields...)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedAction, action)
		}

		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", channel.Name, err)
		}

		commands = append(commands, cmds...)
	}

	return commands, nil
}

// switchCommand produces exactly one SET on the switch field.
func switchCommand(channel *Channel, value int) ([]SnmpCommand, error) {
	cmd, err := setIntCommand(channel, FieldOutputSwitch, value)
	if err != nil {
		return nil, err
	}

	return []SnmpCommand{cmd}, nil
}

// programCommands writes the configured setpoints of one channel in
// the order the vendor documents: supervision window first, then
// voltage and current limit, then ramp rates. The switch is not
// touched.
func programCommands(channel *Channel) ([]SnmpCommand, error) {
	var commands []SnmpCommand

	appendSet := func(field Field, value float64) error {
		cmd, err := setFloatCommand(channel, field, value)
		if err != nil {
			return err
		}

		commands = append(commands, cmd)

		return nil
	}

	if rails := channel.SenseRails; rails != nil {
		if err := appendSet(FieldOutputSupervisionMinSenseVoltage, rails.Min); err != nil {
			return nil, err
		}

		if err := appendSet(FieldOutputSupervisionMaxSenseVoltage, rails.Max); err != nil {
			return nil, err
		}
	}

	if err := appendSet(FieldOutputVoltage, channel.Voltage); err != nil {
		return nil, err
	}

	if err := appendSet(FieldOutputCurrent, channel.Current); err != nil {
		return nil, err
	}

	if channel.RiseRate > 0 {
		if err := appendSet(FieldOutputVoltageRiseRate, channel.RiseRate); err != nil {
			return nil, err
		}
	}

	if channel.FallRate > 0 {
		if err := appendSet(FieldOutputVoltageFallRate, channel.FallRate); err != nil {
			return nil, err
		}
	}

	return commands, nil
}

func getCommands(channel *Channel, fields ...Field) ([]SnmpCommand, error) {
	commands := make([]SnmpCommand, 0, len(fields))

	for _, field := range fields {
		oid, err := channel.OIDFor(field)
		if err != nil {
			return nil, err
		}

		commands = append(commands, SnmpCommand{
			Channel: channel.Name,
			Field:   field,
			Op:      OpGet,
			OID:     oid,
		})
	}

	return commands, nil
}

func setIntCommand(channel *Channel, field Field, value int) (SnmpCommand, error) {
	oid, err := channel.SettableOIDFor(field)
	if err != nil {
		return SnmpCommand{}, err
	}

	return SnmpCommand{
		Channel:  channel.Name,
		Field:    field,
		Op:       OpSet,
		OID:      oid,
		Kind:     KindInteger,
		IntValue: value,
	}, nil
}

func setFloatCommand(channel *Channel, field Field, value float64) (SnmpCommand, error) {
	oid, err := channel.SettableOIDFor(field)
	if err != nil {
		return SnmpCommand{}, err
	}

	return SnmpCommand{
		Channel:    channel.Name,
		Field:      field,
		Op:         OpSet,
		OID:        oid,
		Kind:       KindFloat,
		FloatValue: value,
	}, nil
}
