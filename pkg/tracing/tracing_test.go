package tracing

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"ticker_bot/pkg/logger"
)

func TestInitTracerDisabled(t *testing.T) {
	prev := opentracing.GlobalTracer()
	t.Cleanup(func() { opentracing.SetGlobalTracer(prev) })

	tracer, closer, err := InitTracer(Config{})
	require.NoError(t, err)
	assert.IsType(t, opentracing.NoopTracer{}, tracer)
	assert.IsType(t, opentracing.NoopTracer{}, opentracing.GlobalTracer())
	closer()
}

func TestInitTracerJaeger(t *testing.T) {
	prev := opentracing.GlobalTracer()
	t.Cleanup(func() { opentracing.SetGlobalTracer(prev) })
	core, logs := observer.New(zap.InfoLevel)
	prevLogger := logger.InfoLogger
	logger.InfoLogger = zap.New(core)
	t.Cleanup(func() { logger.InfoLogger = prevLogger })

	old := SetServiceName("ticker-bot-test")
	t.Cleanup(func() { SetServiceName(old) })

	tracer, closer, err := InitTracer(Config{Enabled: true, Host: "127.0.0.1", Port: 6831})
	require.NoError(t, err)
	assert.Same(t, tracer, opentracing.GlobalTracer())
	assert.Equal(t, 1, logs.FilterMessage("Jaeger tracer ticker-bot-test reporting to 127.0.0.1:6831").Len())

	span := tracer.StartSpan("test")
	span.Finish()
	closer()
}
