package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ExtractCorrelationID(ctx))
}

func TestExtractCorrelationIDMissing(t *testing.T) {
	assert.Equal(t, "", ExtractCorrelationID(context.Background()))
}

func TestRepoLoggerDoesNotPanicWithoutCorrelation(t *testing.T) {
	log := NewRepoLogger("posts")
	assert.NotPanics(t, func() {
		log.LogError(context.Background(), assert.AnError, "list")
	})
}
