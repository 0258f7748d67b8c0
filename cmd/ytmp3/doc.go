// Command ytmp3 downloads YouTube videos, audio tracks and whole playlists.
//
// One-shot commands (video, audio, playlist) run a single job and print its
// progress. The serve command exposes the same jobs over HTTP with live
// status on a websocket.
package main
