package instance

import "os"

// envKeys are checked in order; DYNO is set by the hosting platform.
var envKeys = []string{"CHATSHOP_INSTANCE_ID", "DYNO"}

// GetID identifies this process in logs. It falls back to the hostname and
// finally to "local".
func GetID() string {
	for _, key := range envKeys {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
