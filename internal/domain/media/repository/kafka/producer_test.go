package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/tubedrop/internal/domain/media/dto"
)

// mockRecorder is a mock implementation of ProduceRecorder
type mockRecorder struct {
	messages int
	errors   []string
}

func (m *mockRecorder) RecordKafkaMessage(duration float64) {
	m.messages++
}

func (m *mockRecorder) RecordKafkaError(errorType string) {
	m.errors = append(m.errors, errorType)
}

func TestProducer_Publish(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, sarama.NewConfig())
		sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var event dto.JobEvent
			if err := json.Unmarshal(val, &event); err != nil {
				return err
			}
			if event.JobID != "job-1" || event.State != "done" {
				return errors.New("unexpected event payload")
			}
			return nil
		})

		recorder := &mockRecorder{}
		p := newProducer(sp, "media.jobs", recorder, zerolog.Nop())

		err := p.Publish(context.Background(), &dto.JobEvent{JobID: "job-1", State: "done", ChatID: 5})
		require.NoError(t, err)

		assert.Equal(t, 1, recorder.messages)
		assert.True(t, p.IsHealthy())
		require.NoError(t, p.Close())
	})

	t.Run("failure marks unhealthy", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, sarama.NewConfig())
		sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		recorder := &mockRecorder{}
		p := newProducer(sp, "media.jobs", recorder, zerolog.Nop())

		err := p.Publish(context.Background(), &dto.JobEvent{JobID: "job-2", State: "failed"})
		assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

		assert.Equal(t, []string{"send_failed"}, recorder.errors)
		assert.False(t, p.IsHealthy())
		require.NoError(t, p.Close())
	})
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()

	assert.NoError(t, p.Publish(context.Background(), &dto.JobEvent{JobID: "x"}))
	assert.True(t, p.IsHealthy())
	assert.NoError(t, p.Close())
}
