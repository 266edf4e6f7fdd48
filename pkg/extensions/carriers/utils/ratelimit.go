package utils

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// FixedWindowLimiter 按 key 的固定窗口限流器。
// 窗口语义与承运商 API 一致：距上次请求超过一个窗口则计数归零，
// 否则计数达到上限时拒绝。同一凭证的并发调用由互斥锁串行化，
// 两个几乎同时到达的请求不可能都观察到“未超限”。
type FixedWindowLimiter struct {
	mu     sync.Mutex
	clock  clockz.Clock
	limit  int
	window time.Duration
	states map[string]*windowState
}

type windowState struct {
	count int
	last  time.Time
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		clock:  clockz.RealClock,
		limit:  limit,
		window: window,
		states: make(map[string]*windowState),
	}
}

// WithClock 注入时钟，测试时使用 clockz.NewFakeClock()
func (l *FixedWindowLimiter) WithClock(clock clockz.Clock) *FixedWindowLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = clock
	return l
}

// Acquire 占用一次配额，配额耗尽立刻返回 RateLimitError（交互式提交用）
func (l *FixedWindowLimiter) Acquire(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	st, ok := l.states[key]
	if !ok {
		st = &windowState{}
		l.states[key] = st
	}

	if !st.last.IsZero() {
		elapsed := now.Sub(st.last)
		if elapsed >= l.window {
			st.count = 0
		} else if st.count >= l.limit {
			return &RateLimitError{Key: key, RetryAfter: l.window - elapsed}
		}
	}

	st.count++
	st.last = now
	return nil
}

// Wait 配额耗尽时阻塞到窗口重置后再占用（后台批量同步用）
func (l *FixedWindowLimiter) Wait(key string) {
	for {
		err := l.Acquire(key)
		if err == nil {
			return
		}
		rl, ok := err.(*RateLimitError)
		if !ok {
			return
		}
		l.mu.Lock()
		waitCh := l.clock.After(rl.RetryAfter)
		l.mu.Unlock()
		<-waitCh
	}
}

// Snapshot 当前窗口计数，用于把限流状态持久化回凭证记录
func (l *FixedWindowLimiter) Snapshot(key string) (count int, last time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.states[key]; ok {
		return st.count, st.last
	}
	return 0, time.Time{}
}

// Restore 从持久化的凭证记录恢复窗口状态（进程重启后继续计数）
func (l *FixedWindowLimiter) Restore(key string, count int, last time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states[key] = &windowState{count: count, last: last}
}

// Seed 仅在内存中尚无该 key 的窗口时采用持久化状态。
// 已有活动窗口时内存计数是唯一事实来源：多个会话各自持有的凭证快照
// 可能过期，过期快照写回会把共享计数抹掉、放行超额请求
func (l *FixedWindowLimiter) Seed(key string, count int, last time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.states[key]; ok {
		return
	}
	l.states[key] = &windowState{count: count, last: last}
}
