package wire

// AuthorizeMode bits packed into the high byte of a protocol version,
// mirroring port.authorizemode.AuthorizeMode.
const (
	AuthorizeModeNone     int32 = 0x00000000
	AuthorizeModePassword int32 = 0x01000000

	authorizeMaskMasterID int32 = 0x0000FFFF
	authorizeMaskMode     int32 = 0x0F000000
)

// authorization extracts the authorization-mode bits from a protocol
// version, mirroring Connection.authorization.
func authorization(protocolVersion int32) int32 {
	return protocolVersion & authorizeMaskMode
}

// ProtocolVersion enumerates the wire protocol revisions this client
// understands, mirroring client.constants.ProtocolVersion.
type ProtocolVersion int32

const (
	ProtocolVersion1        ProtocolVersion = 0
	ProtocolVersion2        ProtocolVersion = 1
	ProtocolVersion3        ProtocolVersion = 2
	ProtocolVersion4        ProtocolVersion = 3
	ProtocolVersion5        ProtocolVersion = 4
	CurrentProtocolVersion                  = ProtocolVersion5
)
