package dto

import (
	"time"

	"github.com/Conte777/tubedrop/internal/domain/media/entities"
)

// TextRequest is an inbound plain text message
type TextRequest struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

// Key returns the conversation key
func (r *TextRequest) Key() entities.SessionKey {
	return entities.SessionKey{ChatID: r.ChatID, UserID: r.UserID}
}

// ButtonRequest is an inbound button press on a bot message
type ButtonRequest struct {
	ChatID     int64
	UserID     int64
	MessageID  int
	CallbackID string
	Payload    string
}

// Key returns the conversation key
func (r *ButtonRequest) Key() entities.SessionKey {
	return entities.SessionKey{ChatID: r.ChatID, UserID: r.UserID}
}

// Status returns the handle of the message the button belongs to
func (r *ButtonRequest) Status() entities.StatusMessage {
	return entities.StatusMessage{ChatID: r.ChatID, MessageID: r.MessageID}
}

// CommandResponse is a reply to a command
type CommandResponse struct {
	Message string
}

// JobEvent is published on job lifecycle changes
type JobEvent struct {
	JobID      string    `json:"job_id"`
	ChatID     int64     `json:"chat_id"`
	UserID     int64     `json:"user_id"`
	Kind       string    `json:"kind"`
	Format     string    `json:"format,omitempty"`
	URL        string    `json:"url"`
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	FileSize   int64     `json:"file_size,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewJobEvent builds an event for the job's current state
func NewJobEvent(job *entities.DownloadJob) *JobEvent {
	return &JobEvent{
		JobID:      job.ID,
		ChatID:     job.Key.ChatID,
		UserID:     job.Key.UserID,
		Kind:       string(job.Kind),
		Format:     job.FormatSelector,
		URL:        job.SourceURL,
		State:      string(job.State),
		OccurredAt: time.Now().UTC(),
	}
}
