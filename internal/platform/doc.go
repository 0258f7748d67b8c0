package platform

// Package platform contains OS/platform integration and external tooling glue:
// filename sanitizing, filesystem helpers, OS reveal, and the yt-dlp based
// playlist enumeration used when the primary resolver cannot browse a playlist.
