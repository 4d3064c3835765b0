package mpod

import "errors"

var (
	ErrUnknownField            = errors.New("unknown MIB field")
	ErrReadOnlyField           = errors.New("field is read-only")
	ErrUnsupportedAction       = errors.New("unsupported action")
	ErrInvalidChannelSpec      = errors.New("invalid channel spec")
	ErrNoChannels              = errors.New("no channels configured")
	ErrDuplicateChannelAddress = errors.New("duplicate channel slot/index")
	ErrInvalidChannelName      = errors.New("invalid channel name")
	ErrInvalidSenseRails       = errors.New("sense_rails must be [min, max]")
	ErrCrateAddressRequired    = errors.New("MPOD_CRATE_IP is not set")
	ErrToolchainRequired       = errors.New("NET_SNMP_INSTALL is not set")
	ErrUnsupportedSNMPVersion  = errors.New("unsupported SNMP version")
	ErrUnsupportedValueKind    = errors.New("unsupported SET value kind")
	ErrMalformedReply          = errors.New("malformed SNMP reply")
	ErrNotAnOutputOID          = errors.New("OID is not an output table entry")
	ErrNilTarget               = errors.New("crate target is nil")
)
