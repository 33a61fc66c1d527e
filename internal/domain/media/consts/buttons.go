// Package consts contains constants for the media domain
package consts

// Callback payloads. The format id after PayloadVideoFormatPrefix is the
// extractor's own identifier, passed through verbatim.
const (
	PayloadAudio             = "audio"
	PayloadVideo             = "video"
	PayloadVideoAutoDefault  = "video_auto_default"
	PayloadVideoFormatPrefix = "video_format_"
)

// Button labels
const (
	ButtonAudio     = "🎵 Download Audio (MP3)"
	ButtonVideo     = "🎬 Download Video (MP4)"
	ButtonAutoFmt   = "🤖 Auto (best ≤ %dp)"
	ButtonsPerRow   = 2
	BestAudioFormat = "bestaudio/best"
	AutoVideoFormat = "best[height<=%d]"
)

// URLMarkers are the substrings that make a text message a download request
var URLMarkers = []string{"youtube.com", "youtu.be"}
