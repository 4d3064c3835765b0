package mpod

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepdaq/mpodctl/pkg/config"
)

const testConfigJSON = `{
	"module_type": "HV",
	"voltage_range": "500V",
	"channels": {
		"HV1": {"slot": 0, "index": 1, "voltage": 180, "current": 0.001},
		"HV0": {"slot": 0, "index": 0, "voltage": 180, "current": 0.001, "rise_rate": 5, "fall_rate": 10, "sense_rails": [170, 190]},
		"LV0": {"slot": 2, "index": 0, "voltage": 5, "current": 2, "group": "frontend"}
	}
}`

func TestConfigValidate(t *testing.T) {
	var cfg Config

	require.NoError(t, json.Unmarshal([]byte(testConfigJSON), &cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "HV", cfg.ModuleType)
	assert.Equal(t, defaultMaxSlots, cfg.MaxSlots)
	assert.Equal(t, defaultChannelsPerSlot, cfg.ChannelsPerSlot)

	// power-up order: slot by slot, channel by channel, independent of
	// JSON key order
	channels := cfg.OrderedChannels()
	require.Len(t, channels, 3)
	assert.Equal(t, "HV0", channels[0].Name)
	assert.Equal(t, "HV1", channels[1].Name)
	assert.Equal(t, "LV0", channels[2].Name)

	hv0, ok := cfg.Channel("HV0")
	require.True(t, ok)
	assert.Equal(t, 0, hv0.Slot)
	assert.Equal(t, 0, hv0.Index)
	require.NotNil(t, hv0.SenseRails)
	assert.Equal(t, 170.0, hv0.SenseRails.Min)
	assert.Equal(t, 190.0, hv0.SenseRails.Max)

	lv0, ok := cfg.Channel("LV0")
	require.True(t, ok)
	assert.Equal(t, "u200", lv0.OutputName())
	assert.Equal(t, "frontend", lv0.Group)

	_, ok = cfg.Channel("HV9")
	assert.False(t, ok)
}

func TestConfigValidateErrors(t *testing.T) {
	slot, index := 0, 0
	badSlot, badIndex := 99, 999

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "no channels",
			cfg:     Config{},
			wantErr: ErrNoChannels,
		},
		{
			name: "missing slot",
			cfg: Config{Channels: map[string]*ChannelSpec{
				"HV0": {Index: &index},
			}},
			wantErr: ErrInvalidChannelSpec,
		},
		{
			name: "missing index",
			cfg: Config{Channels: map[string]*ChannelSpec{
				"HV0": {Slot: &slot},
			}},
			wantErr: ErrInvalidChannelSpec,
		},
		{
			name: "slot beyond crate capacity",
			cfg: Config{Channels: map[string]*ChannelSpec{
				"HV0": {Slot: &badSlot, Index: &index},
			}},
			wantErr: ErrInvalidChannelSpec,
		},
		{
			name: "index beyond slot capacity",
			cfg: Config{Channels: map[string]*ChannelSpec{
				"HV0": {Slot: &slot, Index: &badIndex},
			}},
			wantErr: ErrInvalidChannelSpec,
		},
		{
			name: "duplicate slot/index",
			cfg: Config{Channels: map[string]*ChannelSpec{
				"HV0": {Slot: &slot, Index: &index},
				"HV1": {Slot: &slot, Index: &index},
			}},
			wantErr: ErrDuplicateChannelAddress,
		},
		{
			name: "bad channel name",
			cfg: Config{Channels: map[string]*ChannelSpec{
				"HV 0": {Slot: &slot, Index: &index},
			}},
			wantErr: ErrInvalidChannelName,
		},
		{
			name: "inverted sense rails",
			cfg: Config{Channels: map[string]*ChannelSpec{
				"HV0": {Slot: &slot, Index: &index, SenseRails: &SenseRails{Min: 200, Max: 100}},
			}},
			wantErr: ErrInvalidSenseRails,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfigCustomCapacity(t *testing.T) {
	slot, index := 1, 3

	cfg := Config{
		MaxSlots:        2,
		ChannelsPerSlot: 4,
		Channels: map[string]*ChannelSpec{
			"CH": {Slot: &slot, Index: &index},
		},
	}
	assert.NoError(t, cfg.Validate())

	badIndex := 4
	cfg = Config{
		MaxSlots:        2,
		ChannelsPerSlot: 4,
		Channels: map[string]*ChannelSpec{
			"CH": {Slot: &slot, Index: &badIndex},
		},
	}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidChannelSpec)
}

func TestSenseRailsUnmarshal(t *testing.T) {
	var rails SenseRails

	require.NoError(t, json.Unmarshal([]byte(`[170, 190]`), &rails))
	assert.Equal(t, SenseRails{Min: 170, Max: 190}, rails)

	assert.Error(t, json.Unmarshal([]byte(`[170]`), &rails))
	assert.Error(t, json.Unmarshal([]byte(`"170-190"`), &rails))
}

func TestTargetFromEnv(t *testing.T) {
	t.Setenv(envCrateIP, "192.168.10.50")
	t.Setenv(envReadCommunity, "")
	t.Setenv(envWriteCommunity, "")

	target, err := TargetFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "192.168.10.50", target.Host)
	assert.Equal(t, uint16(defaultPort), target.Port)
	assert.Equal(t, defaultReadCommunity, target.Community)
	assert.Equal(t, defaultWriteCommunity, target.WriteCommunity)
	assert.Equal(t, Version2c, target.Version)
	assert.Equal(t, config.Duration(5*time.Second), target.Timeout)
}

func TestTargetFromEnvOverrides(t *testing.T) {
	t.Setenv(envCrateIP, "10.0.0.2")
	t.Setenv(envReadCommunity, "readonly")
	t.Setenv(envWriteCommunity, "admin")

	target, err := TargetFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "readonly", target.Community)
	assert.Equal(t, "admin", target.WriteCommunity)
}

func TestTargetFromEnvRequiresAddress(t *testing.T) {
	t.Setenv(envCrateIP, "")

	_, err := TargetFromEnv()
	assert.ErrorIs(t, err, ErrCrateAddressRequired)
}
