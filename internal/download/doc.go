// Package download implements the download orchestration layer: stream
// selection, the single-item and playlist downloaders, and the job runner
// that gates each job kind and reports progress to the interface loop as
// status events.
package download
