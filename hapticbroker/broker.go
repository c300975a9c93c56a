package hapticbroker

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ParseBrokerAddress parses a broker value that may be a bare host[:port]
// or a full scheme://host[:port] URL, falling back to fallbackPort when
// none is present. Grounded on the original project's _parse_broker.
func ParseBrokerAddress(value string, fallbackPort int) (host string, port int, err error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", 0, errors.New("broker must not be empty")
	}

	candidate := raw
	if !strings.Contains(raw, "://") {
		candidate = "mqtt://" + raw
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", 0, errors.Wrapf(err, "invalid broker value %q", value)
	}

	host = parsed.Hostname()
	if host == "" {
		return "", 0, errors.Errorf("invalid broker value %q", value)
	}

	port = fallbackPort
	if p := parsed.Port(); p != "" {
		var parsedPort int
		if _, scanErr := fmt.Sscanf(p, "%d", &parsedPort); scanErr == nil {
			port = parsedPort
		}
	}

	return host, port, nil
}

// Config holds MQTT connection parameters (spec section 6).
type Config struct {
	Host      string
	Port      int
	ClientID  string
	Keepalive int // seconds
	QoS       byte
	Username  string
	Password  string
}

// TCPURL returns the tcp:// broker URL paho.mqtt.golang expects.
func (c Config) TCPURL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// ConnectResult normalizes paho's reason-code duck typing into a plain
// success/failure value (spec section 9).
type ConnectResult struct {
	Success bool
	Message string
}
