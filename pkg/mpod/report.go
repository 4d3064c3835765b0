package mpod

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteStatusReport renders the outcome of a print action, one line
// per channel in command order: the summary state, followed by the
// full condition list when there is more to say than the summary.
func WriteStatusReport(w io.Writer, results []Result) error {
	for _, r := range results {
		if r.Command.Field != FieldOutputStatus {
			continue
		}

		flags := StatusFromResult(r)

		line := fmt.Sprintf("%s: %s", r.Command.Channel, flags.Summary())
		if conditions := flags.Conditions(); flags.Known && len(conditions) > 1 {
			line = fmt.Sprintf("%s [%s]", line, strings.Join(conditions, " "))
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// WriteMeasurementReport renders the outcome of a status action as an
// indented JSON object keyed by channel then field, the shape
// operators pipe into jq. Failed reads appear as nulls so a partial
// crate still reports the channels that answered.
func WriteMeasurementReport(w io.Writer, results []Result) error {
	report := make(map[string]map[string]interface{})

	for _, r := range results {
		fields, ok := report[r.Command.Channel]
		if !ok {
			fields = make(map[string]interface{})
			report[r.Command.Channel] = fields
		}

		if r.Err != nil {
			fields[string(r.Command.Field)] = nil
			continue
		}

		fields[string(r.Command.Field)] = jsonValue(r.Value)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}

// jsonValue keeps raw byte replies printable.
func jsonValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return fmt.Sprintf("%x", b)
	}

	return v
}

// WriteConfigDump renders the loaded configuration the way operators
// expect from the status wall: one formatted block, no SNMP traffic.
func WriteConfigDump(w io.Writer, cfg *Config, target *Target) error {
	divider := strings.Repeat("=", 60)

	host := "not set"
	if target != nil {
		host = target.Host
	}

	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "MPOD Control Configuration")
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[Module Information]")
	fmt.Fprintf(w, "  Module Type:          %s\n", cfg.ModuleType)
	fmt.Fprintf(w, "  Voltage Range:        %s\n", cfg.VoltageRange)
	fmt.Fprintf(w, "  Crate IP:             %s\n", host)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[Channels]")

	for _, channel := range cfg.OrderedChannels() {
		fmt.Fprintf(w, "  %-16s %s\n", channel.Name, channel.OutputName())
		fmt.Fprintf(w, "      output voltage:     %g V\n", channel.Voltage)
		fmt.Fprintf(w, "      current compliance: %g A\n", channel.Current)

		if channel.RiseRate > 0 || channel.FallRate > 0 {
			fmt.Fprintf(w, "      ramp up/down:       %g / %g V/s\n", channel.RiseRate, channel.FallRate)
		}

		if rails := channel.SenseRails; rails != nil {
			fmt.Fprintf(w, "      sense rails:        [%g, %g] V\n", rails.Min, rails.Max)
		}
	}

	fmt.Fprintln(w)
	_, err := fmt.Fprintln(w, divider)

	return err
}
