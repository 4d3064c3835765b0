package mpod

import "context"

//go:generate mockgen -destination=mock_mpod.go -package=mpod github.com/hepdaq/mpodctl/pkg/mpod SNMPClient

// SNMPClient is the external SNMP get/set capability commands are
// dispatched to. Implementations talk to exactly one crate.
type SNMPClient interface {
	// Get retrieves the value behind one OID
	Get(ctx context.Context, oid string) (interface{}, error)
	// Set writes the value carried by a SET command
	Set(ctx context.Context, cmd SnmpCommand) (interface{}, error)
	// Close releases the connection, if any
	Close() error
}
