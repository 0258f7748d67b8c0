// Package status holds the presentation adapters that show job progress:
// a terminal status line, a websocket broadcast hub and a structured log.
package status
