package business

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/tubedrop/internal/domain/media/consts"
	"github.com/Conte777/tubedrop/internal/domain/media/dto"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
	mediaerrors "github.com/Conte777/tubedrop/internal/domain/media/errors"
)

func TestHandleText(t *testing.T) {
	t.Run("URL offers audio and video", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.uc.HandleText(context.Background(), &dto.TextRequest{ChatID: 1, UserID: 2, Text: "https://youtu.be/abc123"})
		require.NoError(t, err)

		require.Len(t, env.sender.sent, 1)
		reply := env.sender.sent[0]
		assert.Equal(t, consts.MessageChooseType, reply.text)
		require.Equal(t, 2, reply.keyboard.Len())
		assert.Equal(t, consts.PayloadAudio, reply.keyboard[0][0].Data)
		assert.Equal(t, consts.PayloadVideo, reply.keyboard[0][1].Data)

		sess, ok := env.uc.sessions.Get(entities.SessionKey{ChatID: 1, UserID: 2})
		require.True(t, ok)
		assert.Equal(t, "https://youtu.be/abc123", sess.PendingURL)
		assert.True(t, sess.IsCurrentPrompt(101))
		assert.Equal(t, 1, env.metrics.sessions)
	})

	t.Run("text without URL is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.uc.HandleText(context.Background(), &dto.TextRequest{ChatID: 1, UserID: 2, Text: "hello there"})
		require.NoError(t, err)

		require.Len(t, env.sender.sent, 1)
		assert.Equal(t, consts.MessageInvalidURL, env.sender.sent[0].text)
		assert.Nil(t, env.sender.sent[0].keyboard)
		assert.Equal(t, 0, env.uc.sessions.Count())
	})

	t.Run("new URL replaces the previous one", func(t *testing.T) {
		env := newTestEnv(t)

		env.offer(t, "https://youtu.be/first")
		env.offer(t, "https://www.youtube.com/watch?v=second")

		sess, ok := env.uc.sessions.Get(entities.SessionKey{ChatID: 1, UserID: 2})
		require.True(t, ok)
		assert.Equal(t, "https://www.youtube.com/watch?v=second", sess.PendingURL)
		assert.Equal(t, uint64(2), sess.Revision)
	})

	t.Run("sender not set", func(t *testing.T) {
		env := newTestEnv(t)
		env.uc.SetSender(nil)

		err := env.uc.HandleText(context.Background(), &dto.TextRequest{Text: "https://youtu.be/x"})
		assert.True(t, errors.Is(err, mediaerrors.ErrSenderNotSet))
	})
}

func TestContainsSupportedURL(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "https://www.youtube.com/watch?v=abc", want: true},
		{text: "look: https://youtu.be/abc", want: true},
		{text: "https://vimeo.com/123", want: false},
		{text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsSupportedURL(tt.text))
		})
	}
}

func TestHandleStart(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.uc.HandleStart(context.Background(), &dto.TextRequest{UserID: 7, Username: "someone"})
	require.NoError(t, err)
	assert.Equal(t, consts.MessageWelcome, resp.Message)

	help, err := env.uc.HandleHelp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, consts.MessageHelp, help.Message)
}

func TestHandleUnknownAction(t *testing.T) {
	env := newTestEnv(t)

	env.uc.HandleUnknownAction(context.Background(), &dto.ButtonRequest{ChatID: 1, Payload: "bogus"})

	assert.Equal(t, 1, env.metrics.unknown)
	assert.Empty(t, env.sender.edits)
	assert.Empty(t, env.sender.sent)
}
