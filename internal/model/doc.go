package model

// Package model defines domain data structures used across the app: download
// targets, resolved media metadata, job state, and the status events that flow
// from background jobs to the interface loop.
