package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

type stubVisionModel struct{ err error }

func (stubVisionModel) Name() string { return "stub-vision" }

func (s stubVisionModel) DescribeImage(context.Context, *domain.Image, string, []domain.Message, string) (string, error) {
	return "ok", s.err
}

type stubSpeechModel struct{}

func (stubSpeechModel) Name() string { return "stub-speech" }

func (stubSpeechModel) GenerateSpeech(context.Context, string) (*domain.Audio, error) {
	return nil, nil
}

type stubDecoder struct{}

func (stubDecoder) Decode(raw []byte) (*domain.Image, error) {
	return &domain.Image{MIMEType: "image/png", Data: raw}, nil
}

type stubPlayer struct{}

func (stubPlayer) Play(_ context.Context, _ *domain.Audio, done func()) { done() }

func TestDecoratorsCountCalls(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	vision := m.NewVisionModelDecorator(stubVisionModel{})
	failing := m.NewVisionModelDecorator(stubVisionModel{err: errors.New("down")})
	speech := m.NewSpeechModelDecorator(stubSpeechModel{})

	_, _ = vision.DescribeImage(context.Background(), nil, "q", nil, "English")
	_, _ = vision.DescribeImage(context.Background(), nil, "q", nil, "English")
	_, _ = failing.DescribeImage(context.Background(), nil, "q", nil, "English")
	_, _ = speech.GenerateSpeech(context.Background(), "hi")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(operationDescribeImage, "stub-vision", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(operationDescribeImage, "stub-vision", statusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(operationGenerateSpeech, "stub-speech", statusSuccess)))
}

func TestObserveSessionTracksStatusAndMessages(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	session := domain.NewSession(
		stubVisionModel{},
		stubSpeechModel{},
		stubDecoder{},
		stubPlayer{},
		common.NewConfig(map[string]any{domain.ConfigKeySpeechEnabled: false}),
		common.NewNopLogger(),
	)
	unsubscribe := m.ObserveSession(session)
	defer unsubscribe()

	_, err := session.SubmitTurn(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messages))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionStatus.WithLabelValues("idle")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.sessionStatus.WithLabelValues("analyzing")))

	session.Clear()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.messages))
}
