// Package youtube resolves YouTube videos and playlists into stream
// descriptors and fetches stream bytes using github.com/kkdai/youtube/v2.
package youtube
