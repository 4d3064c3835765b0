package mpod

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// mibModule is passed to every net-snmp invocation so symbolic names in
// replies resolve against the vendor MIB.
const mibModule = "+WIENER-CRATE-MIB"

// NetSNMPClient implements SNMPClient by shelling out to the snmpget
// and snmpset binaries of a net-snmp installation. This is the default
// backend: crate deployments ship a pinned net-snmp tree with the
// vendor MIB installed next to it.
type NetSNMPClient struct {
	target     *Target
	installDir string
	mibsDir    string
}

// NewNetSNMPClient builds the toolchain-backed client. installDir is
// the root of the net-snmp installation and is mandatory; mibsDir
// optionally overrides the MIB search path.
func NewNetSNMPClient(target *Target, installDir, mibsDir string) (*NetSNMPClient, error) {
	if target == nil {
		return nil, ErrNilTarget
	}

	if installDir == "" {
		return nil, ErrToolchainRequired
	}

	if target.Version != Version1 && target.Version != Version2c {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSNMPVersion, target.Version)
	}

	return &NetSNMPClient{
		target:     target,
		installDir: installDir,
		mibsDir:    mibsDir,
	}, nil
}

// NetSNMPClientFromEnv builds the client from the NET_SNMP_INSTALL and
// NET_SNMP_MIBS_DIR environment variables.
func NetSNMPClientFromEnv(target *Target) (*NetSNMPClient, error) {
	return NewNetSNMPClient(target, os.Getenv(envNetSNMPInstall), os.Getenv(envNetSNMPMibsDir))
}

// Get implements SNMPClient.
func (c *NetSNMPClient) Get(ctx context.Context, oid string) (interface{}, error) {
	out, err := c.run(ctx, "snmpget", c.target.Community, oid)
	if err != nil {
		return nil, &SNMPError{Op: "get", Target: c.target.Host, Wrapped: err}
	}

	return parseReply(out)
}

// Set implements SNMPClient. Writes use the write community; MPOD
// crates reject SETs on the read community.
func (c *NetSNMPClient) Set(ctx context.Context, cmd SnmpCommand) (interface{}, error) {
	if cmd.Kind != KindInteger && cmd.Kind != KindFloat {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedValueKind, cmd.Kind)
	}

	out, err := c.run(ctx, "snmpset", c.target.WriteCommunity, cmd.OID, string(cmd.Kind), cmd.ValueString())
	if err != nil {
		return nil, &SNMPError{Op: "set", Target: c.target.Host, Wrapped: err}
	}

	return parseReply(out)
}

// Close implements SNMPClient. Nothing to release: every command is
// its own process.
func (c *NetSNMPClient) Close() error {
	return nil
}

func (c *NetSNMPClient) run(ctx context.Context, tool, community string, args ...string) (string, error) {
	argv := c.args(community, args...)

	cmd := exec.CommandContext(ctx, filepath.Join(c.installDir, "bin", tool), argv...)

	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("%s: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}

		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// args renders the shared argument prefix of every invocation.
func (c *NetSNMPClient) args(community string, extra ...string) []string {
	version := "2c"
	if c.target.Version == Version1 {
		version = "1"
	}

	argv := []string{"-v", version}

	if c.mibsDir != "" {
		argv = append(argv, "-M", c.mibsDir)
	}

	argv = append(argv, "-m", mibModule, "-c", community, c.hostArg())

	return append(argv, extra...)
}

func (c *NetSNMPClient) hostArg() string {
	if c.target.Port != 0 && c.target.Port != defaultPort {
		return fmt.Sprintf("%s:%d", c.target.Host, c.target.Port)
	}

	return c.target.Host
}

// parseReply extracts the typed value from one line of net-snmp
// output, e.g. `WIENER-CRATE-MIB::outputSwitch.u101 = INTEGER: on(1)`.
func parseReply(line string) (interface{}, error) {
	_, value, found := strings.Cut(line, " = ")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrMalformedReply, line)
	}

	kind, rest, found := strings.Cut(value, ":")
	if !found {
		return strings.TrimSpace(value), nil
	}

	rest = strings.TrimSpace(rest)

	switch strings.TrimSpace(kind) {
	case "INTEGER":
		return parseEnumInt(rest)
	case "BITS":
		// keep the full textual form; the status decoder reads the
		// named bit list
		return value, nil
	case "Opaque":
		return parseOpaqueFloat(rest)
	case "STRING":
		return strings.Trim(rest, `"`), nil
	case "Gauge32", "Counter32", "Counter64":
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedReply, line)
		}

		return n, nil
	default:
		return rest, nil
	}
}

// parseEnumInt handles both plain integers and the labeled enum form
// `on(1)`.
func parseEnumInt(text string) (interface{}, error) {
	if open := strings.IndexByte(text, '('); open >= 0 && strings.HasSuffix(text, ")") {
		text = text[open+1 : len(text)-1]
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedReply, text)
	}

	return n, nil
}

// parseOpaqueFloat handles the `Float: 42.5` tail of an Opaque reply.
func parseOpaqueFloat(text string) (interface{}, error) {
	text = strings.TrimSpace(strings.TrimPrefix(text, "Float:"))

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedReply, text)
	}

	return f, nil
}
