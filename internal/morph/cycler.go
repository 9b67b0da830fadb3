// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package morph

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultInterval is the time between morphs of a hovered letter.
const DefaultInterval = 150 * time.Millisecond

// Update is one style change produced by a Cycler.
type Update struct {
	Index int
	Style Style
}

// Cycler re-rolls the style of one letter on a timer.
type Cycler struct {
	Interval time.Duration
	Rand     *rand.Rand

	// Delayed skips the immediate morph, for letters that Line.Hover has
	// already restyled.
	Delayed bool
}

// NewCycler creates a cycler with DefaultInterval and a fresh generator.
func NewCycler() *Cycler {
	return &Cycler{Interval: DefaultInterval, Rand: NewRand()}
}

// Run morphs letter index immediately (unless Delayed) and then every
// Interval, calling emit each time, until ctx is done. The cycler's generator is used only from
// this goroutine.
func (c *Cycler) Run(ctx context.Context, index int, emit func(Update)) {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	rng := c.Rand
	if rng == nil {
		rng = NewRand()
	}

	if ctx.Err() != nil {
		return
	}
	if !c.Delayed {
		emit(Update{Index: index, Style: Random(rng)})
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit(Update{Index: index, Style: Random(rng)})
		}
	}
}

// Start runs the cycler in a goroutine and returns a channel of updates and
// a stop function. The channel is closed after stop returns.
func (c *Cycler) Start(parent context.Context, index int) (<-chan Update, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan Update, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(ch)
		c.Run(ctx, index, func(u Update) {
			select {
			case ch <- u:
			case <-ctx.Done():
			}
		})
	}()
	stop := func() {
		cancel()
		<-done
	}
	return ch, stop
}
