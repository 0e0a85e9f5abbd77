package version

const Version = "0.1.0"

// ProtocolVersion is the MCP revision this server speaks by default.
const ProtocolVersion = "2024-11-05"

var SupportedProtocolVersions = []string{
	"2025-06-18",
	"2025-03-26",
	"2024-11-05",
}
