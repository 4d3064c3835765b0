package mpod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
)

// SNMPError wraps SNMP-specific errors with additional context.
type SNMPError struct {
	Op      string
	Target  string
	Wrapped error
}

func (e *SNMPError) Error() string {
	return fmt.Sprintf("SNMP %s failed for target %s: %v", e.Op, e.Target, e.Wrapped)
}

func (e *SNMPError) Unwrap() error {
	return e.Wrapped
}

// Client implements SNMPClient in-process using gosnmp. It holds one
// connection to the crate and swaps between the read and write
// communities per operation, since MPOD crates gate SETs behind a
// separate community.
type Client struct {
	client    *gosnmp.GoSNMP
	target    *Target
	mu        sync.Mutex
	connected bool
}

// NewClient builds the native SNMP backend for one crate.
func NewClient(target *Target) (*Client, error) {
	if target == nil {
		return nil, ErrNilTarget
	}

	client := &gosnmp.GoSNMP{
		Target:             target.Host,
		Port:               target.Port,
		Community:          target.Community,
		Timeout:            time.Duration(target.Timeout),
		Retries:            target.Retries,
		ExponentialTimeout: true,
		MaxOids:            gosnmp.MaxOids,
	}

	switch target.Version {
	case Version1:
		client.Version = gosnmp.Version1
	case Version2c:
		client.Version = gosnmp.Version2c
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSNMPVersion, target.Version)
	}

	return &Client{
		client: client,
		target: target,
	}, nil
}

// Get implements SNMPClient.
func (c *Client) Get(ctx context.Context, oid string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.client.Community = c.target.Community

	packet, err := c.client.Get([]string{oid})
	if err != nil {
		c.connected = false

		return nil, &SNMPError{Op: "get", Target: c.target.Host, Wrapped: err}
	}

	if len(packet.Variables) == 0 {
		return nil, &SNMPError{Op: "get", Target: c.target.Host, Wrapped: ErrMalformedReply}
	}

	return convertVariable(packet.Variables[0])
}

// Set implements SNMPClient.
func (c *Client) Set(ctx context.Context, cmd SnmpCommand) (interface{}, error) {
	pdu, err := setPDU(cmd)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.client.Community = c.target.WriteCommunity

	packet, err := c.client.Set([]gosnmp.SnmpPDU{pdu})
	if err != nil {
		c.connected = false

		return nil, &SNMPError{Op: "set", Target: c.target.Host, Wrapped: err}
	}

	if len(packet.Variables) == 0 {
		return nil, &SNMPError{Op: "set", Target: c.target.Host, Wrapped: ErrMalformedReply}
	}

	return convertVariable(packet.Variables[0])
}

// Close implements SNMPClient.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	c.connected = false

	return c.client.Conn.Close()
}

func (c *Client) connect(ctx context.Context) error {
	if c.connected {
		return nil
	}

	c.client.Context = ctx

	if err := c.client.Connect(); err != nil {
		return &SNMPError{Op: "connect", Target: c.target.Host, Wrapped: err}
	}

	c.connected = true

	return nil
}

func setPDU(cmd SnmpCommand) (gosnmp.SnmpPDU, error) {
	switch cmd.Kind {
	case KindInteger:
		return gosnmp.SnmpPDU{Name: cmd.OID, Type: gosnmp.Integer, Value: cmd.IntValue}, nil
	case KindFloat:
		return gosnmp.SnmpPDU{Name: cmd.OID, Type: gosnmp.OpaqueFloat, Value: float32(cmd.FloatValue)}, nil
	default:
		return gosnmp.SnmpPDU{}, fmt.Errorf("%w: %q", ErrUnsupportedValueKind, cmd.Kind)
	}
}

// convertVariable converts an SNMP variable to the appropriate Go type.
func convertVariable(variable gosnmp.SnmpPDU) (interface{}, error) {
	switch variable.Type {
	case gosnmp.OctetString:
		return variable.Value.([]byte), nil
	case gosnmp.Integer:
		return variable.Value.(int), nil
	case gosnmp.Counter32, gosnmp.Gauge32:
		return uint64(variable.Value.(uint)), nil
	case gosnmp.Counter64:
		return variable.Value.(uint64), nil
	case gosnmp.OpaqueFloat:
		return float64(variable.Value.(float32)), nil
	case gosnmp.OpaqueDouble:
		return variable.Value.(float64), nil
	case gosnmp.IPAddress, gosnmp.ObjectIdentifier:
		return variable.Value.(string), nil
	case gosnmp.TimeTicks:
		return time.Duration(variable.Value.(uint32)) * time.Second / 100, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, variable.Type)
	}
}
