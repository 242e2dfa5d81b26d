package at

import "strings"

const (
	// Terminal Control
	CRLF   = "\r\n"
	Prompt = ">"

	// Response Codes
	OK       = "OK"
	ERROR    = "ERROR"
	CmeError = "+CME ERROR:"
	CmsError = "+CMS ERROR:"

	// Commands used during session bring-up
	CmdAt            = "AT"
	CmdEchoOff       = "ATE0"
	CmdVerboseErrors = "AT+CMEE=2"
	CmdSimStatus     = "AT+CPIN?"
	CmdSignal        = "AT+CSQ"
	CmdRegistration  = "AT+CREG?"
	CmdAttach        = "AT+CGATT=1"
	CmdBearerAddress = "AT+CGPADDR=1"

	// Reply fragments
	SimReady      = "+CPIN: READY"
	SimPin        = "+CPIN: SIM PIN"
	SignalPrefix  = "+CSQ:"
	RegPrefix     = "+CREG:"
	AddressPrefix = "+CGPADDR:"
)

// DefaultLineCapacity is the framer accumulation bound. It must hold the
// largest JSON payload line the broker can deliver.
const DefaultLineCapacity = 2048

// Markers are the vendor specific prefixes that separate unsolicited output
// from command replies. All fields are matched as line prefixes.
type Markers struct {
	// BlockStart opens a multi-line inbound message block.
	BlockStart string `yaml:"block_start"`
	// BlockEnd closes the block.
	BlockEnd string `yaml:"block_end"`
	// BlockHeaders are interior lines announcing the next topic or payload
	// line. They carry no data themselves.
	BlockHeaders []string `yaml:"block_headers"`
	// Notifications are single-line unsolicited result codes.
	Notifications []string `yaml:"notifications"`
	// ConnectionLost are the notifications reporting a dropped broker
	// connection. Each must also match Notifications.
	ConnectionLost []string `yaml:"connection_lost"`
}

// DefaultMarkers returns the SIMCom CMQTT dialect.
func DefaultMarkers() Markers {
	return Markers{
		BlockStart:   "+CMQTTRXSTART:",
		BlockEnd:     "+CMQTTRXEND:",
		BlockHeaders: []string{"+CMQTTRXTOPIC:", "+CMQTTRXPAYLOAD:"},
		Notifications: []string{
			"+CMQTTCONNLOST:",
			"+CMQTTNONET",
			"+QMTRECV:",
			"RDY",
			"SMS DONE",
			"PB DONE",
		},
		ConnectionLost: []string{"+CMQTTCONNLOST:", "+CMQTTNONET"},
	}
}

// IsHeader reports whether line is one of the block header lines.
func (m Markers) IsHeader(line string) bool {
	return hasAnyPrefix(line, m.BlockHeaders)
}

// IsConnectionLost reports whether line reports a dropped broker connection.
func (m Markers) IsConnectionLost(line string) bool {
	return hasAnyPrefix(line, m.ConnectionLost)
}

// IsNotification reports whether line is a stand-alone unsolicited code.
func (m Markers) IsNotification(line string) bool {
	return hasAnyPrefix(line, m.Notifications)
}

// IsTerminal reports whether line ends a command transaction.
func IsTerminal(line string) bool {
	switch line {
	case OK, ERROR, Prompt:
		return true
	}
	return strings.HasPrefix(line, CmeError) || strings.HasPrefix(line, CmsError)
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
