package jwt

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the OpenTelemetry instruments recorded by an Authority.
// A nil *Metrics records nothing.
type Metrics struct {
	issued   metric.Int64Counter
	verified metric.Int64Counter
}

// NewMetrics creates the token instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	issued, err := meter.Int64Counter("auth.tokens.issued",
		metric.WithDescription("Tokens issued by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.tokens.issued counter: %w", err)
	}

	verified, err := meter.Int64Counter("auth.tokens.verified",
		metric.WithDescription("Token verifications by type and result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.tokens.verified counter: %w", err)
	}

	return &Metrics{issued: issued, verified: verified}, nil
}

func (m *Metrics) recordIssued(typ TokenType) {
	if m == nil {
		return
	}
	m.issued.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("type", string(typ)),
	))
}

// recordVerified uses "ok" as the result on success and the kind name otherwise.
func (m *Metrics) recordVerified(typ TokenType, result string) {
	if m == nil {
		return
	}
	m.verified.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("type", string(typ)),
		attribute.String("result", result),
	))
}
