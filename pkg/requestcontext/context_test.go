package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, SearchRequestKey(ctx))
	assert.Empty(t, EventName(ctx))

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithSearchRequestKey(ctx, "SR-0001")
	ctx = WithEventName(ctx, "Ordered")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "SR-0001", SearchRequestKey(ctx))
	assert.Equal(t, "Ordered", EventName(ctx))
	assert.Equal(t, fixed, Now(ctx))
}
