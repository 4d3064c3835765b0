package mpod

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatusReport(t *testing.T) {
	channels := testChannels(t)

	commands, err := BuildCommands(ActionPrint, channels)
	require.NoError(t, err)

	results := []Result{
		{Command: commands[0], Value: 0x1},
		{Command: commands[1], Value: 0x0},
	}

	var out bytes.Buffer
	require.NoError(t, WriteStatusReport(&out, results))

	assert.Equal(t, "HV0: on\nHV1: off\n", out.String())
}

func TestWriteStatusReportConditions(t *testing.T) {
	channels := testChannels(t)

	commands, err := BuildCommands(ActionPrint, channels)
	require.NoError(t, err)

	results := []Result{
		{Command: commands[0], Value: int(1<<BitOutputOn | 1<<BitOutputRampUp)},
		{Command: commands[1], Err: assert.AnError},
	}

	var out bytes.Buffer
	require.NoError(t, WriteStatusReport(&out, results))

	assert.Equal(t, "HV0: ramping up [outputOn outputRampUp]\nHV1: unknown\n", out.String())
}

func TestWriteStatusReportSkipsNonStatusResults(t *testing.T) {
	channels := testChannels(t)

	commands, err := BuildCommands(ActionStatus, channels[:1])
	require.NoError(t, err)

	var results []Result
	for _, cmd := range commands {
		results = append(results, Result{Command: cmd, Value: 1})
	}

	var out bytes.Buffer
	require.NoError(t, WriteStatusReport(&out, results))
	assert.Empty(t, out.String())
}

func TestWriteMeasurementReport(t *testing.T) {
	channels := testChannels(t)

	commands, err := BuildCommands(ActionStatus, channels[:1])
	require.NoError(t, err)

	results := make([]Result, 0, len(commands))

	for i, cmd := range commands {
		r := Result{Command: cmd, Value: 1.5}
		if i == 1 {
			// one failed read degrades to null, it does not hide the
			// rest of the channel
			r = Result{Command: cmd, Err: assert.AnError}
		}

		results = append(results, r)
	}

	var out bytes.Buffer
	require.NoError(t, WriteMeasurementReport(&out, results))

	var report map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	require.Contains(t, report, "HV0")
	assert.Equal(t, 1.5, report["HV0"][string(FieldOutputSwitch)])
	assert.Nil(t, report["HV0"][string(FieldOutputVoltage)])
	assert.Len(t, report["HV0"], len(statusFields))
}

func TestWriteConfigDump(t *testing.T) {
	var cfg Config

	require.NoError(t, json.Unmarshal([]byte(testConfigJSON), &cfg))
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	require.NoError(t, WriteConfigDump(&out, &cfg, testTarget()))

	dump := out.String()
	assert.Contains(t, dump, "Module Type:          HV")
	assert.Contains(t, dump, "Voltage Range:        500V")
	assert.Contains(t, dump, "Crate IP:             192.168.10.50")
	assert.Contains(t, dump, "HV0")
	assert.Contains(t, dump, "u200")
	assert.Contains(t, dump, "sense rails:        [170, 190] V")
}
