// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package morph

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary(t *testing.T) {
	assert.Len(t, Fonts, 22)
	assert.Len(t, Colors, 7)
	assert.Equal(t, []int{100, 200, 300, 400, 500, 600, 700, 800, 900}, Weights)
	assert.Equal(t, Style{Font: "Inter", Color: "#1a1a1a", Weight: 400}, DefaultStyle)
}

func TestRandom_PicksFromVocabulary(t *testing.T) {
	rng := NewSeededRand(1)
	for i := 0; i < 500; i++ {
		s := Random(rng)
		assert.Contains(t, Fonts, s.Font)
		assert.Contains(t, Colors, s.Color)
		assert.Contains(t, Weights, s.Weight)
	}
}

func TestRandom_Deterministic(t *testing.T) {
	a := Random(NewSeededRand(42))
	b := Random(NewSeededRand(42))
	assert.Equal(t, a, b)
}

func TestStyle_TerminalAttributes(t *testing.T) {
	assert.True(t, Style{Weight: 600}.Bold())
	assert.False(t, Style{Weight: 500}.Bold())
	assert.True(t, Style{Weight: 300}.Faint())
	assert.False(t, Style{Weight: 400}.Faint())
	assert.True(t, DefaultStyle.IsDefault())
}

func TestAssign_SpacesStayDefault(t *testing.T) {
	styles := Assign("a b", NewSeededRand(3))
	require.Len(t, styles, 3)
	assert.Equal(t, DefaultStyle, styles[1])
	assert.Contains(t, Fonts, styles[0].Font)
}

func TestIsKnownFont(t *testing.T) {
	assert.True(t, IsKnownFont("anton"))
	assert.True(t, IsKnownFont("Jacquard 12"))
	assert.False(t, IsKnownFont("Comic Sans"))
}

// =============================================================================
// LINE
// =============================================================================

func TestLine_HoverMorphsImmediately(t *testing.T) {
	l := NewLine("ab")
	rng := NewSeededRand(7)

	require.True(t, l.Hover(0, rng))
	lt, _ := l.Letter(0)
	assert.True(t, lt.Hovered)
	assert.Contains(t, Fonts, lt.Style.Font)
	assert.Equal(t, 0, l.Hovered())

	assert.False(t, l.Hover(5, rng))
	assert.False(t, l.Hover(-1, rng))
}

func TestLine_LeaveKeepsLastStyle(t *testing.T) {
	l := NewLine("ab")
	rng := NewSeededRand(7)
	l.Hover(1, rng)
	styled, _ := l.Letter(1)

	l.Leave()
	after, _ := l.Letter(1)
	assert.False(t, after.Hovered)
	assert.Equal(t, styled.Style, after.Style)
	assert.Equal(t, -1, l.Hovered())
}

func TestLine_SpacesNeverMorph(t *testing.T) {
	l := NewLine("a b")
	rng := NewSeededRand(9)

	require.True(t, l.Hover(1, rng))
	sp, _ := l.Letter(1)
	assert.Equal(t, DefaultStyle, sp.Style)
	assert.False(t, l.Apply(1, Style{Font: "Anton"}))
}

func TestLine_SetTextKeepsMatchingLetters(t *testing.T) {
	l := NewLine("abc")
	l.Apply(0, Style{Font: "Anton", Color: "#FF6600", Weight: 900})
	l.Apply(2, Style{Font: "Bonbon", Color: "#0FE641", Weight: 100})

	l.SetText("abd")
	a, _ := l.Letter(0)
	d, _ := l.Letter(2)
	assert.Equal(t, "Anton", a.Style.Font)
	assert.Equal(t, DefaultStyle, d.Style)
	assert.Equal(t, "abd", l.Text())
}

func TestLine_SetTextDropsHoverPastEnd(t *testing.T) {
	l := NewLine("abcd")
	l.Hover(3, NewSeededRand(1))
	l.SetText("ab")
	assert.Equal(t, -1, l.Hovered())
}

func TestLine_ResetBumpsGeneration(t *testing.T) {
	l := NewLine("ab")
	l.Hover(0, NewSeededRand(1))
	keyBefore := l.Letters()[0].Key(l.Generation())

	l.Reset("Type Morph")

	assert.Equal(t, 1, l.Generation())
	assert.Equal(t, -1, l.Hovered())
	for _, lt := range l.Letters() {
		assert.Equal(t, DefaultStyle, lt.Style)
	}
	assert.NotEqual(t, keyBefore, l.Letters()[0].Key(l.Generation()))
	assert.Equal(t, "0-1-b", Letter{Char: "b", Index: 1}.Key(0))
}

func TestLine_UsedFonts(t *testing.T) {
	l := NewLine("ab c")
	l.Apply(0, Style{Font: "Anton"})
	l.Apply(3, Style{Font: "Anton"})
	fonts := l.UsedFonts()
	assert.Equal(t, []string{"Anton", "Inter"}, fonts)
}

func TestLine_MultibyteLetters(t *testing.T) {
	l := NewLine("héllo")
	assert.Equal(t, 5, l.Len())
	lt, _ := l.Letter(1)
	assert.Equal(t, "é", lt.Char)
}

// =============================================================================
// CYCLER
// =============================================================================

func TestCycler_EmitsImmediatelyThenOnInterval(t *testing.T) {
	c := &Cycler{Interval: 5 * time.Millisecond, Rand: NewSeededRand(5)}
	ctx, cancel := context.WithCancel(context.Background())

	var updates []Update
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, 3, func(u Update) {
			updates = append(updates, u)
			if len(updates) == 4 {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cycler did not stop")
	}
	require.GreaterOrEqual(t, len(updates), 4)
	for _, u := range updates {
		assert.Equal(t, 3, u.Index)
		assert.True(t, slices.Contains(Fonts, u.Style.Font))
	}
}

func TestCycler_DelayedWaitsOneInterval(t *testing.T) {
	c := &Cycler{Interval: 50 * time.Millisecond, Rand: NewSeededRand(6), Delayed: true}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	first := make(chan time.Duration, 1)
	go c.Run(ctx, 0, func(Update) {
		select {
		case first <- time.Since(start):
		default:
		}
	})

	select {
	case d := <-first:
		assert.GreaterOrEqual(t, d, 40*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("no update")
	}
}

func TestCycler_CancelledContextEmitsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	NewCycler().Run(ctx, 0, func(Update) { called = true })
	assert.False(t, called)
}

func TestCycler_StartStop(t *testing.T) {
	c := &Cycler{Interval: time.Millisecond, Rand: NewSeededRand(2)}
	ch, stop := c.Start(context.Background(), 1)

	select {
	case u := <-ch:
		assert.Equal(t, 1, u.Index)
	case <-time.After(time.Second):
		t.Fatal("no update")
	}

	stop()
	for range ch {
		// drain until closed
	}
}
