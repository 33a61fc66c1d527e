// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf16"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/tubedrop/internal/domain/media/dto"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
	"github.com/Conte777/tubedrop/internal/domain/media/usecase/business"
)

// Constants for Telegram API
const (
	MaxMessageLength = 4096
	RequestTimeout   = 30 * time.Second
	UploadTimeout    = 10 * time.Minute
)

// Handlers contains Telegram update handlers.
// Implements deps.ChatSender interface
type Handlers struct {
	uc     *business.UseCase
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		logger: logger.With().Str("component", "telegram_handlers").Logger(),
	}
}

// SendText implements deps.ChatSender interface
func (h *Handlers) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	return h.send(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   truncate(text),
	})
}

// SendKeyboard implements deps.ChatSender interface
func (h *Handlers) SendKeyboard(ctx context.Context, chatID int64, text string, keyboard entities.Keyboard) (int, error) {
	return h.send(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        truncate(text),
		ReplyMarkup: toInlineKeyboard(keyboard),
	})
}

func (h *Handlers) send(ctx context.Context, params *tgbot.SendMessageParams) (int, error) {
	chatID, _ := params.ChatID.(int64)
	if params.Text == "" {
		h.logger.Warn().Int64("chat_id", chatID).Msg("Attempt to send empty message")
		return 0, fmt.Errorf("message text cannot be empty")
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := h.bot.SendMessage(msgCtx, params)
	if err != nil {
		handledErr := h.handleSendMessageError(chatID, err)
		h.logMessageSend(chatID, len(params.Text), false, handledErr)
		return 0, handledErr
	}

	h.logMessageSend(chatID, len(params.Text), true, nil)
	return msg.ID, nil
}

// EditText implements deps.ChatSender interface. The inline keyboard is dropped.
func (h *Handlers) EditText(ctx context.Context, msg entities.StatusMessage, text string) error {
	return h.edit(ctx, msg, text, nil)
}

// EditKeyboard implements deps.ChatSender interface
func (h *Handlers) EditKeyboard(ctx context.Context, msg entities.StatusMessage, text string, keyboard entities.Keyboard) error {
	return h.edit(ctx, msg, text, toInlineKeyboard(keyboard))
}

func (h *Handlers) edit(ctx context.Context, msg entities.StatusMessage, text string, markup models.ReplyMarkup) error {
	if text == "" {
		return fmt.Errorf("message text cannot be empty")
	}

	h.logger.Debug().
		Int64("chat_id", msg.ChatID).
		Int("message_id", msg.MessageID).
		Int("text_length", len(text)).
		Msg("Editing message text")

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	params := &tgbot.EditMessageTextParams{
		ChatID:    msg.ChatID,
		MessageID: msg.MessageID,
		Text:      truncate(text),
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := h.bot.EditMessageText(msgCtx, params); err != nil {
		if isNotModified(err) {
			return nil
		}
		h.logger.Error().Int64("chat_id", msg.ChatID).Int("message_id", msg.MessageID).Err(err).Msg("Failed to edit message text")
		return h.handleSendMessageError(msg.ChatID, err)
	}

	return nil
}

// SendAudio implements deps.ChatSender interface
func (h *Handlers) SendAudio(ctx context.Context, chatID int64, filePath, title string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	uploadCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err = h.bot.SendAudio(uploadCtx, &tgbot.SendAudioParams{
		ChatID: chatID,
		Audio:  &models.InputFileUpload{Filename: filepath.Base(filePath), Data: file},
		Title:  title,
	})
	if err != nil {
		handledErr := h.handleSendMessageError(chatID, err)
		h.logMediaSend(chatID, "audio", filePath, handledErr)
		return handledErr
	}

	h.logMediaSend(chatID, "audio", filePath, nil)
	return nil
}

// SendVideo implements deps.ChatSender interface
func (h *Handlers) SendVideo(ctx context.Context, chatID int64, filePath, caption string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	uploadCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err = h.bot.SendVideo(uploadCtx, &tgbot.SendVideoParams{
		ChatID:            chatID,
		Video:             &models.InputFileUpload{Filename: filepath.Base(filePath), Data: file},
		Caption:           caption,
		SupportsStreaming: true,
	})
	if err != nil {
		handledErr := h.handleSendMessageError(chatID, err)
		h.logMediaSend(chatID, "video", filePath, handledErr)
		return handledErr
	}

	h.logMediaSend(chatID, "video", filePath, nil)
	return nil
}

// AnswerCallback implements deps.ChatSender interface
func (h *Handlers) AnswerCallback(ctx context.Context, callbackID string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.AnswerCallbackQuery(msgCtx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	})
	if err != nil {
		h.logger.Warn().Str("callback_id", callbackID).Err(err).Msg("Failed to answer callback query")
	}

	return err
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	req := textRequest(update.Message)

	h.logCommand(req.UserID, "/start", "processing")

	resp, err := h.uc.HandleStart(ctx, req)
	if err != nil {
		h.logError(req.UserID, "/start", err)
		return
	}

	h.sendResponse(ctx, req.ChatID, resp.Message)
	h.logCommand(req.UserID, "/start", "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	req := textRequest(update.Message)

	h.logCommand(req.UserID, "/help", "processing")

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logError(req.UserID, "/help", err)
		return
	}

	h.sendResponse(ctx, req.ChatID, resp.Message)
	h.logCommand(req.UserID, "/help", "success")
}

// HandleText handles plain (non-command) text messages
func (h *Handlers) HandleText(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	req := textRequest(update.Message)

	if err := h.uc.HandleText(ctx, req); err != nil {
		h.logError(req.UserID, "text", err)
	}
}

// HandleCallback handles inline button presses
func (h *Handlers) HandleCallback(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	// acknowledge first so the client stops its spinner during long downloads
	_ = h.AnswerCallback(ctx, query.ID)

	req, ok := buttonRequest(query)
	if !ok {
		h.logger.Warn().Str("callback_id", query.ID).Msg("Callback without message ignored")
		return
	}

	h.logCommand(req.UserID, "callback", req.Payload)

	if err := dispatch(ctx, h.uc, req, dto.ParseAction(req.Payload)); err != nil {
		h.logError(req.UserID, "callback", err)
	}
}

// actionHandler is the use-case surface button actions are routed to
type actionHandler interface {
	Download(ctx context.Context, req *dto.ButtonRequest, kind entities.MediaKind, formatSelector string) error
	ListFormats(ctx context.Context, req *dto.ButtonRequest) error
	HandleUnknownAction(ctx context.Context, req *dto.ButtonRequest)
}

func dispatch(ctx context.Context, uc actionHandler, req *dto.ButtonRequest, action dto.Action) error {
	switch action := action.(type) {
	case dto.ActionAudio:
		return uc.Download(ctx, req, entities.KindAudio, "")
	case dto.ActionVideo:
		return uc.ListFormats(ctx, req)
	case dto.ActionVideoFormat:
		return uc.Download(ctx, req, entities.KindVideo, action.FormatID)
	case dto.ActionVideoAutoDefault:
		return uc.Download(ctx, req, entities.KindVideo, "")
	default:
		uc.HandleUnknownAction(ctx, req)
		return nil
	}
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if _, err := h.SendText(ctx, chatID, text); err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) handleSendMessageError(chatID int64, err error) error {
	kind, wrapped := classifySendError(err)

	switch kind {
	case sendErrorUnknown:
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Unknown error while calling Telegram")
	default:
		h.logger.Warn().Int64("chat_id", chatID).Str("reason", string(kind)).Msg("Telegram call rejected")
	}

	return wrapped
}

// logMessageSend logs message send result
func (h *Handlers) logMessageSend(chatID int64, length int, success bool, err error) {
	logEvent := h.logger.Debug()
	if !success {
		logEvent = h.logger.Error()
	}

	logEvent.Int64("chat_id", chatID).Int("message_length", length).Bool("success", success)

	if err != nil {
		logEvent.Err(err)
	}

	logEvent.Msg("Message send attempt completed")
}

func (h *Handlers) logMediaSend(chatID int64, mediaType, filePath string, err error) {
	logEvent := h.logger.Info()
	if err != nil {
		logEvent = h.logger.Error().Err(err)
	}

	logEvent.
		Int64("chat_id", chatID).
		Str("media_type", mediaType).
		Str("file", filepath.Base(filePath)).
		Bool("success", err == nil).
		Msg("Media send attempt completed")
}

// logCommand logs processed commands
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

// logError logs command errors
func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Telegram command failed")
}

type sendErrorKind string

const (
	sendErrorForbidden    sendErrorKind = "forbidden"
	sendErrorChatNotFound sendErrorKind = "chat_not_found"
	sendErrorRateLimited  sendErrorKind = "rate_limited"
	sendErrorNetwork      sendErrorKind = "network"
	sendErrorTooLarge     sendErrorKind = "too_large"
	sendErrorUnknown      sendErrorKind = "unknown"
)

// classifySendError maps a Bot API error onto a reason and a short error
func classifySendError(err error) (sendErrorKind, error) {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "Forbidden"):
		return sendErrorForbidden, fmt.Errorf("user blocked the bot or chat not found")
	case strings.Contains(errorMsg, "chat not found"):
		return sendErrorChatNotFound, fmt.Errorf("chat not found")
	case strings.Contains(errorMsg, "Too Many Requests"):
		return sendErrorRateLimited, fmt.Errorf("rate limit exceeded, please try again later")
	case strings.Contains(errorMsg, "Request Entity Too Large"), strings.Contains(errorMsg, "file is too big"):
		return sendErrorTooLarge, fmt.Errorf("file exceeds the Bot API upload limit")
	case strings.Contains(errorMsg, "network error"), strings.Contains(errorMsg, "timeout"),
		strings.Contains(errorMsg, "deadline exceeded"):
		return sendErrorNetwork, fmt.Errorf("network error, please try again")
	default:
		return sendErrorUnknown, fmt.Errorf("telegram call failed: %w", err)
	}
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

func toInlineKeyboard(keyboard entities.Keyboard) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		}
		rows = append(rows, buttons)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// truncate limits text to MaxMessageLength UTF-16 code units, the unit
// Telegram counts in, cutting on a rune boundary
func truncate(text string) string {
	const ellipsis = "..."

	units, cut := 0, -1
	for i, r := range text {
		n := utf16.RuneLen(r)
		if cut < 0 && units+n > MaxMessageLength-len(ellipsis) {
			cut = i
		}
		units += n
		if units > MaxMessageLength {
			return text[:cut] + ellipsis
		}
	}
	return text
}

func textRequest(msg *models.Message) *dto.TextRequest {
	req := &dto.TextRequest{
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil {
		req.UserID = msg.From.ID
		req.Username = msg.From.Username
	}
	return req
}

// buttonRequest extracts the press; false when the bound message is unknown
func buttonRequest(query *models.CallbackQuery) (*dto.ButtonRequest, bool) {
	req := &dto.ButtonRequest{
		UserID:     query.From.ID,
		CallbackID: query.ID,
		Payload:    query.Data,
	}

	switch {
	case query.Message.Message != nil:
		req.ChatID = query.Message.Message.Chat.ID
		req.MessageID = query.Message.Message.ID
	case query.Message.InaccessibleMessage != nil:
		req.ChatID = query.Message.InaccessibleMessage.Chat.ID
		req.MessageID = query.Message.InaccessibleMessage.MessageID
	default:
		return nil, false
	}

	return req, true
}

// isPlainText matches non-command text messages
func isPlainText(update *models.Update) bool {
	return update.Message != nil &&
		update.Message.Text != "" &&
		!strings.HasPrefix(update.Message.Text, "/")
}
