// Package dto contains data transfer objects for the media domain
package dto

import (
	"strings"

	"github.com/Conte777/tubedrop/internal/domain/media/consts"
)

// Action is the closed set of button payloads the bot understands
type Action interface {
	action()
}

// ActionAudio requests an audio download
type ActionAudio struct{}

// ActionVideo requests the quality list
type ActionVideo struct{}

// ActionVideoFormat requests a video download with an explicit format id
type ActionVideoFormat struct {
	FormatID string
}

// ActionVideoAutoDefault requests a height-capped best video
type ActionVideoAutoDefault struct{}

// ActionUnknown carries a payload no other action matched
type ActionUnknown struct {
	Payload string
}

func (ActionAudio) action()            {}
func (ActionVideo) action()            {}
func (ActionVideoFormat) action()      {}
func (ActionVideoAutoDefault) action() {}
func (ActionUnknown) action()          {}

// ParseAction decodes a callback payload
func ParseAction(payload string) Action {
	switch payload {
	case consts.PayloadAudio:
		return ActionAudio{}
	case consts.PayloadVideo:
		return ActionVideo{}
	case consts.PayloadVideoAutoDefault:
		return ActionVideoAutoDefault{}
	}

	if id, ok := strings.CutPrefix(payload, consts.PayloadVideoFormatPrefix); ok && id != "" {
		return ActionVideoFormat{FormatID: id}
	}

	return ActionUnknown{Payload: payload}
}

// EncodeVideoFormat builds the payload for a format button
func EncodeVideoFormat(formatID string) string {
	return consts.PayloadVideoFormatPrefix + formatID
}
