package mpod

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/hepdaq/mpodctl/pkg/config"
)

const (
	defaultTimeout         = 5 * time.Second
	defaultRetries         = 3
	defaultPort            = 161
	defaultMaxSlots        = 10
	defaultChannelsPerSlot = 100
	maxChannelNameLength   = 64
	defaultReadCommunity   = "public"
	defaultWriteCommunity  = "guru"
	envCrateIP             = "MPOD_CRATE_IP"
	envNetSNMPInstall      = "NET_SNMP_INSTALL"
	envNetSNMPMibsDir      = "NET_SNMP_MIBS_DIR"
	envReadCommunity       = "MPOD_SNMP_COMMUNITY"
	envWriteCommunity      = "MPOD_SNMP_WRITE_COMMUNITY"
)

// Target identifies the crate one invocation talks to. It is built once
// at startup and passed explicitly to the clients; nothing reads the
// environment after that.
type Target struct {
	Host           string
	Port           uint16
	Community      string
	WriteCommunity string
	Version        SNMPVersion
	Timeout        config.Duration
	Retries        int
}

// TargetFromEnv builds the crate target from the process environment.
// The crate address is mandatory; communities fall back to the vendor
// defaults (public for reads, guru for writes).
func TargetFromEnv() (*Target, error) {
	host := os.Getenv(envCrateIP)
	if host == "" {
		return nil, ErrCrateAddressRequired
	}

	target := &Target{
		Host:           host,
		Port:           defaultPort,
		Community:      defaultReadCommunity,
		WriteCommunity: defaultWriteCommunity,
		Version:        Version2c,
		Timeout:        config.Duration(defaultTimeout),
		Retries:        defaultRetries,
	}

	if c := os.Getenv(envReadCommunity); c != "" {
		target.Community = c
	}

	if c := os.Getenv(envWriteCommunity); c != "" {
		target.WriteCommunity = c
	}

	return target, nil
}

// Config is the JSON configuration describing the channels of one
// crate. The channel map is keyed by the operator-facing channel name.
type Config struct {
	ModuleType      string                  `json:"module_type"`
	VoltageRange    string                  `json:"voltage_range"`
	MaxSlots        int                     `json:"max_slots,omitempty"`
	ChannelsPerSlot int                     `json:"channels_per_slot,omitempty"`
	MaxCommandRate  float64                 `json:"max_command_rate,omitempty"`
	Channels        map[string]*ChannelSpec `json:"channels"`

	ordered []Channel
}

// Validate implements config.Validator. It applies capacity defaults,
// validates every channel spec and freezes the channel ordering.
func (c *Config) Validate() error {
	if c.MaxSlots == 0 {
		c.MaxSlots = defaultMaxSlots
	}

	if c.ChannelsPerSlot == 0 {
		c.ChannelsPerSlot = defaultChannelsPerSlot
	}

	if c.MaxSlots < 0 || c.ChannelsPerSlot < 0 {
		return fmt.Errorf("%w: negative crate capacity", ErrInvalidChannelSpec)
	}

	if len(c.Channels) == 0 {
		return ErrNoChannels
	}

	channels := make([]Channel, 0, len(c.Channels))
	addresses := make(map[int]string, len(c.Channels))

	for name, spec := range c.Channels {
		if err := validateChannelName(name); err != nil {
			return err
		}

		channel, err := newChannel(name, spec, c.MaxSlots, c.ChannelsPerSlot)
		if err != nil {
			return err
		}

		key := mibIndex(channel.Slot, channel.Index)
		if other, ok := addresses[key]; ok {
			return fmt.Errorf("%w: %s and %s both map to %s",
				ErrDuplicateChannelAddress, other, name, channel.OutputName())
		}

		addresses[key] = name

		channels = append(channels, channel)
	}

	// Power-up order: slot by slot, channel by channel. JSON objects
	// carry no ordering, so the address is the only deterministic key.
	sort.Slice(channels, func(i, j int) bool {
		return mibIndex(channels[i].Slot, channels[i].Index) < mibIndex(channels[j].Slot, channels[j].Index)
	})

	c.ordered = channels

	return nil
}

// OrderedChannels returns every configured channel in power-up order.
// Validate must have been called first.
func (c *Config) OrderedChannels() []Channel {
	return c.ordered
}

// Channel looks up one configured channel by name.
func (c *Config) Channel(name string) (Channel, bool) {
	for _, channel := range c.ordered {
		if channel.Name == name {
			return channel, true
		}
	}

	return Channel{}, false
}

func validateChannelName(name string) error {
	if name == "" || len(name) > maxChannelNameLength {
		return fmt.Errorf("%w: %q", ErrInvalidChannelName, name)
	}

	for _, r := range name {
		if !isValidNameChar(r) {
			return fmt.Errorf("%w: %q", ErrInvalidChannelName, name)
		}
	}

	return nil
}

func isValidNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_'
}
