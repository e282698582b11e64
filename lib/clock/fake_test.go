// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Fake(start)

	if got := c.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	c.Advance(1500 * time.Millisecond)
	if got := c.Now(); !got.Equal(start.Add(1500 * time.Millisecond)) {
		t.Errorf("Now() after Advance = %v, want %v", got, start.Add(1500*time.Millisecond))
	}

	if got := c.Since(start); got != 1500*time.Millisecond {
		t.Errorf("Since(start) = %v, want 1.5s", got)
	}
}

func TestFakeSet(t *testing.T) {
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	target := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	c.Set(target)
	if got := c.Now(); !got.Equal(target) {
		t.Errorf("Now() after Set = %v, want %v", got, target)
	}
}

func TestFakeConcurrentAccess(t *testing.T) {
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for n := 0; n < 10; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Advance(time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			_ = c.Now()
		}()
	}
	wg.Wait()

	want := time.Date(2026, 1, 1, 0, 0, 0, 10_000_000, time.UTC)
	if got := c.Now(); !got.Equal(want) {
		t.Errorf("Now() after 10 concurrent 1ms advances = %v, want %v", got, want)
	}
}
