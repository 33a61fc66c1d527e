// Package deps contains interface definitions for the media domain dependencies
package deps

import (
	"context"

	"github.com/Conte777/tubedrop/internal/domain/media/dto"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
)

// ChatSender defines the outbound side of the chat platform.
// It is implemented by the Telegram delivery handlers and set on the use case
// after construction to break the UseCase <-> Handlers cycle.
type ChatSender interface {
	// SendText sends a plain text message and returns its message ID
	SendText(ctx context.Context, chatID int64, text string) (int, error)

	// SendKeyboard sends a text with an inline button grid and returns its message ID
	SendKeyboard(ctx context.Context, chatID int64, text string, keyboard entities.Keyboard) (int, error)

	// EditText replaces the text of a message and drops its keyboard
	EditText(ctx context.Context, msg entities.StatusMessage, text string) error

	// EditKeyboard replaces the text and the inline grid of a message
	EditKeyboard(ctx context.Context, msg entities.StatusMessage, text string, keyboard entities.Keyboard) error

	// SendAudio uploads a local file as an audio attachment
	SendAudio(ctx context.Context, chatID int64, filePath, title string) error

	// SendVideo uploads a local file as a video attachment
	SendVideo(ctx context.Context, chatID int64, filePath, caption string) error

	// AnswerCallback acknowledges a button press
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Extractor is the external media extraction collaborator
type Extractor interface {
	// FetchInfo queries metadata without writing any file
	FetchInfo(ctx context.Context, url string) (*entities.MediaInfo, error)

	// Download produces a local file. Progress events are published to
	// progress without blocking; the channel is not closed by the extractor.
	Download(ctx context.Context, req entities.DownloadRequest, progress chan<- entities.ProgressEvent) (*entities.DownloadResult, error)
}

// SessionRepository stores per-conversation state
type SessionRepository interface {
	// SetURL replaces the pending URL and returns the new revision
	SetURL(key entities.SessionKey, url string) uint64

	// Get returns a copy of the session
	Get(key entities.SessionKey) (entities.Session, bool)

	// BindPrompt records that messageID offers choices for revision
	BindPrompt(key entities.SessionKey, messageID int, revision uint64)

	// Count returns the number of sessions
	Count() int
}

// JobEventPublisher publishes job lifecycle events
type JobEventPublisher interface {
	Publish(ctx context.Context, event *dto.JobEvent) error
	IsHealthy() bool
	Close() error
}

// Metrics records media domain metrics
type Metrics interface {
	RecordDownload(kind string, durationSeconds float64, bytes int64)
	RecordDownloadError(kind, errorType string)
	RecordFormatListing(result string)
	RecordUnknownCallback()
	SetSessions(count int)
}
