package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{
			name:        "Invalid URL",
			url:         "invalid://url",
			expectError: true,
		},
		{
			name:        "Empty URL",
			url:         "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", zap.NewNop())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestClient_Get(t *testing.T) {
	mr, client := setupTestRedis(t)

	ctx := context.Background()

	mr.Set("test:key1", "value1")

	value, err := client.Get(ctx, "test:key1")
	assert.NoError(t, err)
	assert.Equal(t, "value1", value)

	_, err = client.Get(ctx, "test:nonexistent")
	assert.Error(t, err)
}

func TestClient_Incr(t *testing.T) {
	mr, client := setupTestRedis(t)

	ctx := context.Background()

	tests := []struct {
		name          string
		key           string
		initialValue  string
		expectedValue int64
	}{
		{
			name:          "Increment non-existent key",
			key:           "test:counter1",
			initialValue:  "",
			expectedValue: 1,
		},
		{
			name:          "Increment existing counter",
			key:           "test:counter2",
			initialValue:  "5",
			expectedValue: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.initialValue != "" {
				mr.Set(tt.key, tt.initialValue)
			}

			value, err := client.Incr(ctx, tt.key)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedValue, value)
		})
	}
}

func TestClient_Expire(t *testing.T) {
	mr, client := setupTestRedis(t)

	ctx := context.Background()

	mr.Set("test:expire1", "value1")

	err := client.Expire(ctx, "test:expire1", time.Hour)
	assert.NoError(t, err)

	ttl := mr.TTL("test:expire1")
	assert.Greater(t, ttl, time.Duration(0))
}

func TestClient_SetNX(t *testing.T) {
	_, client := setupTestRedis(t)

	ctx := context.Background()

	ok, err := client.SetNX(ctx, "test:nx", "first", time.Minute)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "test:nx", "second", time.Minute)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_Health(t *testing.T) {
	mr, client := setupTestRedis(t)

	ctx := context.Background()

	err := client.Health(ctx)
	assert.NoError(t, err)

	mr.Close()
	err = client.Health(ctx)
	assert.Error(t, err)
}

func TestClient_KeyBuilderIntegration(t *testing.T) {
	_, client := setupTestRedis(t)

	require.NotNil(t, client.KeyBuilder)

	key := client.KeyBuilder.KeyRateLimitIP("10.0.0.1")
	assert.Equal(t, "staging:ratelimit:ip:10.0.0.1", key)
}
