package provider

import (
	"context"
	"time"
)

// Sleeper 抽象等待行為，測試可注入假時鐘
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// realSleeper 以真實時鐘等待，並尊重 context 取消
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BackoffPolicy 提供者失敗後的固定退避策略
type BackoffPolicy struct {
	Delay   time.Duration
	sleeper Sleeper
}

// NewBackoffPolicy 創建固定延遲的退避策略
func NewBackoffPolicy(delay time.Duration) *BackoffPolicy {
	return &BackoffPolicy{
		Delay:   delay,
		sleeper: realSleeper{},
	}
}

// NewBackoffPolicyWithSleeper 創建使用自訂 Sleeper 的退避策略（測試用）
func NewBackoffPolicyWithSleeper(delay time.Duration, sleeper Sleeper) *BackoffPolicy {
	return &BackoffPolicy{
		Delay:   delay,
		sleeper: sleeper,
	}
}

// Wait 在下一次嘗試前等待
func (p *BackoffPolicy) Wait(ctx context.Context) error {
	if p == nil || p.Delay <= 0 {
		return nil
	}
	return p.sleeper.Sleep(ctx, p.Delay)
}
