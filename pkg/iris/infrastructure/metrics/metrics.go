// Package metrics exports Prometheus metrics for remote model calls and the chat session.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"kgeyst.com/iris/pkg/iris/domain"
)

const namespace = "iris"

const (
	operationDescribeImage  = "describe_image"
	operationGenerateSpeech = "generate_speech"
	statusSuccess           = "success"
	statusError             = "error"
)

type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	messages        prometheus.Gauge
	sessionStatus   *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with `registerer`.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_request_duration_seconds",
				Help:      "Duration of remote model calls in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation", "model"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_requests_total",
				Help:      "Total number of remote model calls",
			},
			[]string{"operation", "model", "status"},
		),
		messages: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "conversation_messages",
				Help:      "Number of messages in the current conversation",
			},
		),
		sessionStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "session_status",
				Help:      "1 for the current session status, 0 otherwise",
			},
			[]string{"status"},
		),
	}
	registerer.MustRegister(m.requestDuration, m.requestsTotal, m.messages, m.sessionStatus)
	m.observeState(domain.State{Status: domain.StatusIdle})
	return m
}

// ObserveSession keeps the session gauges up to date. Returns the unsubscribe function.
func (m *Metrics) ObserveSession(session *domain.Session) func() {
	m.observeState(session.State())
	return session.Subscribe(m.observeState)
}

func (m *Metrics) observeState(state domain.State) {
	m.messages.Set(float64(len(state.Messages)))
	for _, status := range []domain.Status{domain.StatusIdle, domain.StatusAnalyzing, domain.StatusSpeaking} {
		value := 0.0
		if status == state.Status {
			value = 1
		}
		m.sessionStatus.WithLabelValues(status.String()).Set(value)
	}
}

func (m *Metrics) observe(operation, model string, started time.Time, err error) {
	m.requestDuration.WithLabelValues(operation, model).Observe(time.Since(started).Seconds())
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.requestsTotal.WithLabelValues(operation, model, status).Inc()
}

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
	metrics            *Metrics
}

func (m *Metrics) NewVisionModelDecorator(wrappedVisionModel domain.VisionModel) domain.VisionModel {
	return &visionModelDecorator{wrappedVisionModel: wrappedVisionModel, metrics: m}
}

func (v *visionModelDecorator) Name() string {
	return v.wrappedVisionModel.Name()
}

func (v *visionModelDecorator) DescribeImage(ctx context.Context, image *domain.Image, prompt string, history []domain.Message, language string) (string, error) {
	started := time.Now()
	response, err := v.wrappedVisionModel.DescribeImage(ctx, image, prompt, history, language)
	v.metrics.observe(operationDescribeImage, v.Name(), started, err)
	return response, err
}

type speechModelDecorator struct {
	wrappedSpeechModel domain.SpeechModel
	metrics            *Metrics
}

func (m *Metrics) NewSpeechModelDecorator(wrappedSpeechModel domain.SpeechModel) domain.SpeechModel {
	return &speechModelDecorator{wrappedSpeechModel: wrappedSpeechModel, metrics: m}
}

func (s *speechModelDecorator) Name() string {
	return s.wrappedSpeechModel.Name()
}

func (s *speechModelDecorator) GenerateSpeech(ctx context.Context, text string) (*domain.Audio, error) {
	started := time.Now()
	audio, err := s.wrappedSpeechModel.GenerateSpeech(ctx, text)
	s.metrics.observe(operationGenerateSpeech, s.Name(), started, err)
	return audio, err
}
