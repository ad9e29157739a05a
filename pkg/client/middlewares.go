package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

type Middleware func(next http.RoundTripper) http.RoundTripper

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func RequestIDMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Request-ID") == "" {
				req.Header.Set("X-Request-ID", uuid.New().String())
			}
			return next.RoundTrip(req)
		})
	}
}

// RateLimitMiddleware throttles outgoing pushes. Relay services cap the
// call rate per send key, so a limiter shared across senders keeps a
// noisy task from burning the quota.
func RateLimitMiddleware(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if limiter != nil {
				if err := limiter.Wait(req.Context()); err != nil {
					return nil, err
				}
			}
			return next.RoundTrip(req)
		})
	}
}

func CircuitBreakerMiddleware(breaker *gobreaker.CircuitBreaker) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if breaker == nil {
				return next.RoundTrip(req)
			}
			var resp *http.Response
			_, err := breaker.Execute(func() (interface{}, error) {
				var rerr error
				resp, rerr = next.RoundTrip(req)
				if rerr != nil {
					return nil, rerr
				}
				if resp != nil && resp.StatusCode >= 500 {
					status := resp.StatusCode
					io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
					resp = nil
					return nil, fmt.Errorf("upstream status %d", status)
				}
				return resp, nil
			})
			if err != nil {
				return nil, err
			}
			return resp, nil
		})
	}
}

type TracingConfig struct {
	TracerProvider    trace.TracerProvider
	Propagators       propagation.TextMapPropagator
	SpanNameFormatter func(r *http.Request) string
}

func DefaultTracingConfig() *TracingConfig {
	return &TracingConfig{
		TracerProvider: otel.GetTracerProvider(),
		Propagators:    otel.GetTextMapPropagator(),
		SpanNameFormatter: func(r *http.Request) string {
			return fmt.Sprintf("HTTP %s", r.Method)
		},
	}
}

func TracingMiddleware(config *TracingConfig) Middleware {
	if config == nil {
		config = DefaultTracingConfig()
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	if config.Propagators == nil {
		config.Propagators = otel.GetTextMapPropagator()
	}
	if config.SpanNameFormatter == nil {
		config.SpanNameFormatter = DefaultTracingConfig().SpanNameFormatter
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return &tracingTransport{
			next:   next,
			config: config,
			tracer: config.TracerProvider.Tracer("github.com/fsandov/serverchan-go/pkg/client"),
		}
	}
}

type tracingTransport struct {
	next   http.RoundTripper
	config *TracingConfig
	tracer trace.Tracer
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	spanName := t.config.SpanNameFormatter(req)
	ctx, span := t.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	t.config.Propagators.Inject(ctx, propagation.HeaderCarrier(req.Header))
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
		attribute.String("http.host", req.Host),
	)
	resp, err := t.next.RoundTrip(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}

type MetricsConfig struct {
	Namespace  string
	Subsystem  string
	Registerer prometheus.Registerer
}

func MetricsMiddleware(config *MetricsConfig) Middleware {
	if config == nil {
		return nil
	}
	if config.Namespace == "" {
		config.Namespace = "push_client"
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	var (
		requestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Time spent delivering push notifications",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "host", "status"},
		)
		requestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of push delivery requests",
			},
			[]string{"method", "host", "status"},
		)
		requestErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "request_errors_total",
				Help:      "Total number of push delivery transport errors",
			},
			[]string{"method", "host"},
		)
	)
	config.Registerer.MustRegister(requestDuration, requestsTotal, requestErrors)
	return func(next http.RoundTripper) http.RoundTripper {
		return &metricsTransport{
			next:            next,
			requestDuration: requestDuration,
			requestsTotal:   requestsTotal,
			requestErrors:   requestErrors,
		}
	}
}

type metricsTransport struct {
	next            http.RoundTripper
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	requestErrors   *prometheus.CounterVec
}

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	method := req.Method
	host := req.URL.Host
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		t.requestErrors.WithLabelValues(method, host).Inc()
		return nil, err
	}
	status := fmt.Sprintf("%d", resp.StatusCode)
	t.requestDuration.WithLabelValues(method, host, status).Observe(duration)
	t.requestsTotal.WithLabelValues(method, host, status).Inc()
	return resp, nil
}

type HooksConfig struct {
	PreRequest  func(req *http.Request)
	PostRequest func(req *http.Request, resp *http.Response)
	OnError     func(req *http.Request, err error)
}

func HooksMiddleware(cfg *HooksConfig) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if cfg != nil && cfg.PreRequest != nil {
				cfg.PreRequest(req)
			}
			resp, err := next.RoundTrip(req)
			if err != nil && cfg != nil && cfg.OnError != nil {
				cfg.OnError(req, err)
			}
			if resp != nil && cfg != nil && cfg.PostRequest != nil {
				cfg.PostRequest(req, resp)
			}
			return resp, err
		})
	}
}

func ReadAndRestoreBody(resp *http.Response) ([]byte, error) {
	if resp == nil || resp.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
