// Package entities contains domain entities
package entities

import (
	"fmt"
	"time"
)

// MediaKind is the requested output kind of a download
type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

// SessionKey identifies a conversation
type SessionKey struct {
	ChatID int64
	UserID int64
}

// Session is the volatile per-conversation state.
// PromptMessageID is the message carrying the choices for the current URL.
type Session struct {
	PendingURL      string
	Revision        uint64
	PromptMessageID int
}

// HasURL reports whether a URL is on record
func (s Session) HasURL() bool {
	return s.PendingURL != ""
}

// IsCurrentPrompt reports whether messageID offers choices for the current URL
func (s Session) IsCurrentPrompt(messageID int) bool {
	return s.PromptMessageID != 0 && s.PromptMessageID == messageID
}

// MediaInfo is the metadata returned by the extractor
type MediaInfo struct {
	Title   string
	Formats []EncodingDescriptor
}

// EncodingDescriptor describes one downloadable variant, in extractor order
type EncodingDescriptor struct {
	FormatID       string
	Container      string
	VideoCodec     string
	AudioCodec     string
	Height         *int
	FileSize       *int64
	FileSizeApprox *int64
}

// HasVideo reports whether the variant carries a video stream
func (d EncodingDescriptor) HasVideo() bool {
	return d.VideoCodec != "none"
}

// HasAudio reports whether the variant carries an audio stream
func (d EncodingDescriptor) HasAudio() bool {
	return d.AudioCodec != "none"
}

// Size returns the exact size if known, else the approximate one
func (d EncodingDescriptor) Size() (int64, bool) {
	if d.FileSize != nil && *d.FileSize > 0 {
		return *d.FileSize, true
	}
	if d.FileSizeApprox != nil && *d.FileSizeApprox > 0 {
		return *d.FileSizeApprox, true
	}
	return 0, false
}

// FormatOption is one selectable video quality
type FormatOption struct {
	Height          int
	FormatID        string
	ApproxSizeBytes *int64
}

// Label renders the button text, e.g. "720p (~30.0MB)"
func (o FormatOption) Label() string {
	if o.ApproxSizeBytes != nil {
		return fmt.Sprintf("%dp (~%.1fMB)", o.Height, BytesToMB(*o.ApproxSizeBytes))
	}
	return fmt.Sprintf("%dp", o.Height)
}

// BytesToMB converts bytes to mebibytes
func BytesToMB(n int64) float64 {
	return float64(n) / (1024 * 1024)
}

// Button is an inline keyboard button
type Button struct {
	Text string
	Data string
}

// Keyboard is a grid of inline buttons
type Keyboard [][]Button

// Len returns the number of buttons in the grid
func (k Keyboard) Len() int {
	n := 0
	for _, row := range k {
		n += len(row)
	}
	return n
}

// StatusMessage is the handle of the message edited in place during a job
type StatusMessage struct {
	ChatID    int64
	MessageID int
}

// DownloadRequest is what the extractor needs to produce a local file
type DownloadRequest struct {
	URL            string
	Kind           MediaKind
	FormatSelector string
	OutputDir      string
	AudioCodec     string
	AudioQuality   string
}

// DownloadResult is the produced local file
type DownloadResult struct {
	FilePath string
	Title    string
}

// ProgressStatus is the extractor-reported progress status
type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
)

// ProgressEvent is a periodic progress report from the extractor
type ProgressEvent struct {
	Status          ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64
}

// Percent returns completion in percent; false when total size is unknown
func (e ProgressEvent) Percent() (float64, bool) {
	if e.TotalBytes <= 0 {
		return 0, false
	}
	return float64(e.DownloadedBytes) / float64(e.TotalBytes) * 100, true
}

// DownloadJob lives for one download/upload cycle
type DownloadJob struct {
	ID             string
	Key            SessionKey
	Kind           MediaKind
	FormatSelector string
	SourceURL      string
	Status         StatusMessage
	State          JobState
	StartedAt      time.Time
}
