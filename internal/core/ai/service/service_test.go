package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"smashly-api/internal/core/ai/provider"
	"smashly-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider 固定行為的提供者
type fakeProvider struct {
	name     string
	response string
	err      error
	calls    int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

// fakeSleeper 記錄等待次數的假時鐘
type fakeSleeper struct {
	waits  int
	delays []time.Duration
}

func (s *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.waits++
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func TestGenerateFirstSuccessWins(t *testing.T) {
	first := &fakeProvider{name: "first", response: "hola"}
	second := &fakeProvider{name: "second", response: "nunca"}
	svc := NewServiceWithChain([]ChainEntry{
		{Provider: first},
		{Provider: second},
	})

	content, err := svc.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hola", content)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls, "成功後不應再嘗試後續提供者")
}

func TestGenerateFallsThroughToLastProvider(t *testing.T) {
	sleeper := &fakeSleeper{}
	providerErr := errors.New("rate limited")

	var chain []ChainEntry
	var failed []*fakeProvider
	for i := 0; i < 4; i++ {
		p := &fakeProvider{name: "failing", err: providerErr}
		failed = append(failed, p)
		chain = append(chain, ChainEntry{
			Provider: p,
			Backoff:  provider.NewBackoffPolicyWithSleeper(500*time.Millisecond, sleeper),
		})
	}
	winner := &fakeProvider{name: "winner", response: "por fin"}
	chain = append(chain, ChainEntry{Provider: winner})

	svc := NewServiceWithChain(chain)
	content, err := svc.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "por fin", content)
	for _, p := range failed {
		assert.Equal(t, 1, p.calls)
	}
	assert.Equal(t, 1, winner.calls)
	// 每次失敗後等待一次
	assert.Equal(t, 4, sleeper.waits)
	for _, d := range sleeper.delays {
		assert.Equal(t, 500*time.Millisecond, d)
	}
}

func TestGenerateAllFailReturnsExhausted(t *testing.T) {
	lastErr := errors.New("quota exceeded")
	svc := NewServiceWithChain([]ChainEntry{
		{Provider: &fakeProvider{name: "a", err: errors.New("down")}},
		{Provider: &fakeProvider{name: "b", err: lastErr}},
	})

	_, err := svc.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrProviderExhausted.Code, customErr.Code)
	assert.ErrorIs(t, err, lastErr)
}

func TestGenerateEmptyResponseTreatedAsFailure(t *testing.T) {
	empty := &fakeProvider{name: "empty", response: ""}
	backup := &fakeProvider{name: "backup", response: "contenido"}
	svc := NewServiceWithChain([]ChainEntry{
		{Provider: empty},
		{Provider: backup},
	})

	content, err := svc.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "contenido", content)
	assert.Equal(t, 1, empty.calls)
}

func TestGenerateStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := &fakeProvider{name: "first", err: errors.New("down")}
	second := &fakeProvider{name: "second", response: "tarde"}
	svc := NewServiceWithChain([]ChainEntry{
		{Provider: &cancellingProvider{inner: first, cancel: cancel}},
		{Provider: second},
	})

	_, err := svc.Generate(ctx, "prompt")
	require.Error(t, err)
	assert.Zero(t, second.calls, "context 取消後不應再嘗試")
}

// cancellingProvider 在第一次呼叫失敗時同時取消 context
type cancellingProvider struct {
	inner  *fakeProvider
	cancel context.CancelFunc
}

func (p *cancellingProvider) Name() string { return p.inner.Name() }

func (p *cancellingProvider) Generate(ctx context.Context, prompt string) (string, error) {
	content, err := p.inner.Generate(ctx, prompt)
	p.cancel()
	return content, err
}
