// mpodctl switches and inspects the output channels of a Wiener MPOD
// power-supply crate over SNMP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hepdaq/mpodctl/pkg/config"
	"github.com/hepdaq/mpodctl/pkg/mpod"
)

const (
	backendNetSNMP = "netsnmp"
	backendNative  = "native"

	// actionConfigDump renders the loaded configuration; it is local
	// only and never reaches the command builder.
	actionConfigDump = "config"
)

var (
	errUsage              = fmt.Errorf("usage: mpodctl [flags] -config FILE {enable|disable|program|print|status|config}")
	errFailedToLoadConfig = fmt.Errorf("failed to load config")
	errUnknownChannel     = fmt.Errorf("unknown channel")
	errUnknownBackend     = fmt.Errorf("unknown SNMP backend")
	errCommandsFailed     = fmt.Errorf("commands failed")
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to the crate JSON configuration")
	dryRun := flag.Bool("dry-run", false, "Render the SNMP commands without sending them")
	channelName := flag.String("channel", "", "Restrict the action to one configured channel")
	backend := flag.String("backend", backendNetSNMP, "SNMP backend: netsnmp or native")
	flag.Parse()

	if flag.NArg() != 1 || *configPath == "" {
		return errUsage
	}

	action := flag.Arg(0)

	var cfg mpod.Config

	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	target, err := mpod.TargetFromEnv()
	if err != nil {
		return err
	}

	channels := cfg.OrderedChannels()

	if *channelName != "" {
		channel, ok := cfg.Channel(*channelName)
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownChannel, *channelName)
		}

		channels = []mpod.Channel{channel}
	}

	if action == actionConfigDump {
		return mpod.WriteConfigDump(os.Stdout, &cfg, target)
	}

	commands, err := buildCommands(mpod.Action(action), channels)
	if err != nil {
		return err
	}

	var client mpod.SNMPClient

	if !*dryRun {
		if client, err = newClient(*backend, target); err != nil {
			return err
		}

		defer func() {
			if err := client.Close(); err != nil {
				log.Printf("Error closing SNMP client: %v", err)
			}
		}()
	}

	executor, err := mpod.NewExecutor(target, client, &mpod.ExecutorOptions{
		DryRun:         *dryRun,
		MaxCommandRate: cfg.MaxCommandRate,
	})
	if err != nil {
		return err
	}

	results := executor.Execute(context.Background(), commands)

	if !*dryRun {
		if err := report(mpod.Action(action), results); err != nil {
			return err
		}
	}

	// One bad channel must not silence the others: every failure is
	// enumerated, and the exit status reflects the batch as a whole.
	failed := mpod.Failures(results)
	for _, r := range failed {
		log.Printf("channel %s: %s %s failed: %v", r.Command.Channel, r.Command.Op, r.Command.Field, r.Err)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d", errCommandsFailed, len(failed), len(results))
	}

	return nil
}

// buildCommands maps the CLI verb onto builder calls. Enabling
// programs each channel's setpoints immediately before its switch
// write; disabling walks the channels in reverse of the power-up
// order.
func buildCommands(action mpod.Action, channels []mpod.Channel) ([]mpod.SnmpCommand, error) {
	switch action {
	case mpod.ActionEnable:
		var commands []mpod.SnmpCommand

		for _, channel := range channels {
			one := []mpod.Channel{channel}

			program, err := mpod.BuildCommands(mpod.ActionProgram, one)
			if err != nil {
				return nil, err
			}

			enable, err := mpod.BuildCommands(mpod.ActionEnable, one)
			if err != nil {
				return nil, err
			}

			commands = append(commands, program...)
			commands = append(commands, enable...)
		}

		return commands, nil
	case mpod.ActionDisable:
		return mpod.BuildCommands(mpod.ActionDisable, reversed(channels))
	default:
		return mpod.BuildCommands(action, channels)
	}
}

func newClient(backend string, target *mpod.Target) (mpod.SNMPClient, error) {
	switch backend {
	case backendNetSNMP:
		return mpod.NetSNMPClientFromEnv(target)
	case backendNative:
		return mpod.NewClient(target)
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownBackend, backend)
	}
}

func report(action mpod.Action, results []mpod.Result) error {
	switch action {
	case mpod.ActionPrint:
		return mpod.WriteStatusReport(os.Stdout, results)
	case mpod.ActionStatus:
		return mpod.WriteMeasurementReport(os.Stdout, results)
	default:
		for _, r := range results {
			if r.Err != nil || r.Command.Field != mpod.FieldOutputSwitch || r.Command.Op != mpod.OpSet {
				continue
			}

			state := "switched on"
			if r.Command.IntValue == 0 {
				state = "switched off"
			}

			fmt.Printf("%s: %s\n", r.Command.Channel, state)
		}

		return nil
	}
}

func reversed(channels []mpod.Channel) []mpod.Channel {
	out := make([]mpod.Channel, len(channels))

	for i, channel := range channels {
		out[len(channels)-1-i] = channel
	}

	return out
}
