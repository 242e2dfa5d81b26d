package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Signal quality 99 means unknown or not detectable.
const rssiUnknown = 99

// parseCSQ parses the text after "+CSQ:", e.g. "17,99".
func parseCSQ(s string) (rssi, ber int, err error) {
	fields := strings.Split(s, ",")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("malformed signal quality %q", s)
	}
	if rssi, err = strconv.Atoi(strings.TrimSpace(fields[0])); err != nil {
		return 0, 0, fmt.Errorf("malformed rssi %q", s)
	}
	if ber, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return 0, 0, fmt.Errorf("malformed ber %q", s)
	}
	return rssi, ber, nil
}

// parseCREG parses the text after "+CREG:" and returns the registration
// status, e.g. "0,1" gives 1.
func parseCREG(s string) (int, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 2 {
		return 0, fmt.Errorf("malformed registration %q", s)
	}
	stat, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, fmt.Errorf("malformed registration %q", s)
	}
	return stat, nil
}

// registered reports home (1) or roaming (5) registration.
func registered(stat int) bool {
	return stat == 1 || stat == 5
}

// parseAddress parses the text after "+CGPADDR:", e.g. `1,10.2.3.4` or
// `1,"10.2.3.4"`, and returns the address.
func parseAddress(s string) (string, error) {
	_, addr, ok := strings.Cut(s, ",")
	if !ok {
		return "", fmt.Errorf("malformed address %q", s)
	}
	return strings.Trim(strings.TrimSpace(addr), `"`), nil
}

// assigned reports whether addr is a usable address.
func assigned(addr string) bool {
	return addr != "" && addr != "0.0.0.0" && addr != "0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0"
}
