// Package business contains business logic for the media domain
package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Conte777/tubedrop/config"
	"github.com/Conte777/tubedrop/internal/domain/media/consts"
	"github.com/Conte777/tubedrop/internal/domain/media/deps"
	"github.com/Conte777/tubedrop/internal/domain/media/dto"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
	mediaerrors "github.com/Conte777/tubedrop/internal/domain/media/errors"
)

// UseCase contains business logic for media requests
type UseCase struct {
	sessions  deps.SessionRepository
	extractor deps.Extractor
	events    deps.JobEventPublisher
	metrics   deps.Metrics
	cfg       *config.MediaConfig
	sender    deps.ChatSender
	logger    zerolog.Logger
}

// NewUseCase creates a new UseCase instance.
// The sender is set later with SetSender to break the cyclic dependency.
func NewUseCase(
	sessions deps.SessionRepository,
	extractor deps.Extractor,
	events deps.JobEventPublisher,
	metrics deps.Metrics,
	cfg *config.MediaConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		sessions:  sessions,
		extractor: extractor,
		events:    events,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger.With().Str("component", "media_usecase").Logger(),
	}
}

// SetSender sets the ChatSender after construction
func (uc *UseCase) SetSender(sender deps.ChatSender) {
	uc.sender = sender
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(ctx context.Context, req *dto.TextRequest) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("user_id", req.UserID).
		Str("username", req.Username).
		Msg("User started bot")

	return &dto.CommandResponse{Message: consts.MessageWelcome}, nil
}

// HandleHelp handles /help command
func (uc *UseCase) HandleHelp(ctx context.Context) (*dto.CommandResponse, error) {
	return &dto.CommandResponse{Message: consts.MessageHelp}, nil
}

// HandleText stores a recognised URL and offers the audio/video choice.
// Text without a URL marker is rejected and leaves the session untouched.
func (uc *UseCase) HandleText(ctx context.Context, req *dto.TextRequest) error {
	if uc.sender == nil {
		return mediaerrors.ErrSenderNotSet
	}

	if !ContainsSupportedURL(req.Text) {
		uc.logger.Debug().Int64("chat_id", req.ChatID).Msg("Text without supported URL rejected")
		if _, err := uc.sender.SendText(ctx, req.ChatID, consts.MessageInvalidURL); err != nil {
			return fmt.Errorf("failed to send rejection: %w", err)
		}
		return nil
	}

	key := req.Key()
	revision := uc.sessions.SetURL(key, req.Text)
	uc.metrics.SetSessions(uc.sessions.Count())

	keyboard := entities.Keyboard{{
		{Text: consts.ButtonAudio, Data: consts.PayloadAudio},
		{Text: consts.ButtonVideo, Data: consts.PayloadVideo},
	}}

	messageID, err := uc.sender.SendKeyboard(ctx, req.ChatID, consts.MessageChooseType, keyboard)
	if err != nil {
		return fmt.Errorf("failed to send download type choice: %w", err)
	}

	uc.sessions.BindPrompt(key, messageID, revision)

	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Int64("user_id", req.UserID).
		Uint64("revision", revision).
		Int("message_id", messageID).
		Msg("Download type choice offered")

	return nil
}

// ContainsSupportedURL reports whether text carries a recognised URL marker
func ContainsSupportedURL(text string) bool {
	for _, marker := range consts.URLMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// resolveURL returns the pending URL the pressed button refers to
func (uc *UseCase) resolveURL(req *dto.ButtonRequest) (string, error) {
	sess, ok := uc.sessions.Get(req.Key())
	if !ok || !sess.HasURL() {
		return "", mediaerrors.ErrURLNotFound
	}

	if !sess.IsCurrentPrompt(req.MessageID) {
		return "", mediaerrors.ErrStaleSelection
	}

	return sess.PendingURL, nil
}

// reportSelectionError turns a resolveURL error into the prompt's text
func (uc *UseCase) reportSelectionError(ctx context.Context, req *dto.ButtonRequest, err error) {
	text := consts.MessageURLNotFound
	if errors.Is(err, mediaerrors.ErrStaleSelection) {
		text = consts.MessageStale
	}

	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Int("message_id", req.MessageID).
		Str("payload", req.Payload).
		Err(err).
		Msg("Button press rejected")

	if editErr := uc.sender.EditText(ctx, req.Status(), text); editErr != nil {
		uc.logger.Warn().Err(editErr).Int64("chat_id", req.ChatID).Msg("Failed to report rejected selection")
	}
}

// HandleUnknownAction records a button payload nothing understood.
// The press is acknowledged by the caller without user-visible text.
func (uc *UseCase) HandleUnknownAction(ctx context.Context, req *dto.ButtonRequest) {
	uc.metrics.RecordUnknownCallback()

	uc.logger.Warn().
		Int64("chat_id", req.ChatID).
		Int64("user_id", req.UserID).
		Str("payload", req.Payload).
		Msg("Unknown callback payload")
}
