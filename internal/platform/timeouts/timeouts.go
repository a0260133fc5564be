// Package timeouts defines shared timeout constants.
package timeouts

import "time"

// TelemetryShutdown caps how long trace exporters may flush after a command
// returns.
const TelemetryShutdown = 5 * time.Second
