package utils

import (
	"context"
	"testing"
	"time"

	"stock-strategy/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsString(t *testing.T) {
	tests := []struct {
		name  string
		slice []string
		str   string
		want  bool
	}{
		{"present", []string{"AAPL", "MSFT", "GOOGL"}, "MSFT", true},
		{"absent", []string{"AAPL", "MSFT"}, "NVDA", false},
		{"empty slice", nil, "AAPL", false},
		{"case sensitive", []string{"AAPL"}, "aapl", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsString(tt.slice, tt.str))
		})
	}
}

func TestToPointer(t *testing.T) {
	p := ToPointer(42.5)
	require.NotNil(t, p)
	assert.Equal(t, 42.5, *p)

	b := ToPointer(true)
	require.NotNil(t, b)
	assert.True(t, *b)
}

func TestGoSafe_RecoversPanic(t *testing.T) {
	done := make(chan struct{})
	GoSafe(func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}

func TestShouldContinue(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	assert.True(t, ShouldContinue(ctx, log))

	cancel()
	assert.False(t, ShouldContinue(ctx, log))
}
