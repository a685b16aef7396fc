package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	sp := mocks.NewSyncProducer(t, nil)
	p := NewProducer(sp, ProducerConfig{
		TopicAttendance: "orbit.attendance",
		TopicStages:     "orbit.candidate-stages",
		Source:          "test",
	}, zerolog.Nop())
	p.now = func() time.Time { return time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC) }
	return p, sp
}

func TestPublishAttendanceEnvelope(t *testing.T) {
	p, sp := newTestProducer(t)
	defer p.Close()

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "orbit.attendance" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "user-1" {
			return errors.New("unexpected key " + string(key))
		}
		raw, _ := msg.Value.Encode()
		var env Envelope[AttendanceEvent]
		if err := json.Unmarshal(raw, &env); err != nil {
			return err
		}
		if env.Kind != "attendance.clock_in" || env.Payload.AttendanceID != "att-1" || env.Source != "test" {
			return errors.New("unexpected envelope")
		}
		return nil
	})

	err := p.PublishAttendance(context.Background(), AttendanceEvent{
		AttendanceID: "att-1",
		UserID:       "user-1",
		EventType:    "clock_in",
		Status:       "clocked_in",
	})
	require.NoError(t, err)
}

func TestPublishStageChangedFailure(t *testing.T) {
	p, sp := newTestProducer(t)
	defer p.Close()

	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := p.PublishStageChanged(context.Background(), StageChangedEvent{CandidateID: "c-1", StageKey: "hired"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestSendWithoutProducer(t *testing.T) {
	var p *Producer
	assert.Error(t, p.send(context.Background(), "t", "k", nil, nil))
	assert.NoError(t, p.Close())
}
