// Package testutil provides height profile generators and reference answers
// shared by the package tests.
package testutil

import (
	"math/rand"
	"sync"
)

// Scenario is a named profile with its known trapped water.
type Scenario struct {
	Name    string
	Heights []int
	Water   int
}

// ReferenceScenarios returns the fixed profiles every implementation must agree on.
func ReferenceScenarios() []Scenario {
	return []Scenario{
		{Name: "empty", Heights: []int{}, Water: 0},
		{Name: "classic", Heights: []int{0, 1, 0, 2, 1, 0, 1, 3, 2, 1, 2, 1}, Water: 6},
		{Name: "short valley", Heights: []int{4, 2, 3}, Water: 1},
		{Name: "flat", Heights: []int{1, 1, 1, 1}, Water: 0},
		{Name: "descending", Heights: []int{5, 4, 3, 2, 1}, Water: 0},
		{Name: "wide basin", Heights: []int{3, 0, 0, 0, 3}, Water: 9},
		{Name: "single bar", Heights: []int{7}, Water: 0},
		{Name: "two bars", Heights: []int{2, 5}, Water: 0},
		{Name: "uneven walls", Heights: []int{4, 2, 0, 3, 2, 5}, Water: 9},
	}
}

// HeightGenerator produces reproducible random profiles.
type HeightGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeightGenerator creates a generator seeded with seed.
func NewHeightGenerator(seed int64) *HeightGenerator {
	return &HeightGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Random returns n heights drawn uniformly from [0, maxHeight].
func (g *HeightGenerator) Random(n, maxHeight int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	heights := make([]int, n)
	for i := range heights {
		heights[i] = g.rng.Intn(maxHeight + 1)
	}
	return heights
}

// NonDecreasing returns n heights where each bar is at least as high as the previous one.
func (g *HeightGenerator) NonDecreasing(n, maxStep int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	heights := make([]int, n)
	cur := 0
	for i := range heights {
		cur += g.rng.Intn(maxStep + 1)
		heights[i] = cur
	}
	return heights
}

// NonIncreasing returns the mirror image of a NonDecreasing profile.
func (g *HeightGenerator) NonIncreasing(n, maxStep int) []int {
	return Reverse(g.NonDecreasing(n, maxStep))
}

// Reverse returns a reversed copy of heights.
func Reverse(heights []int) []int {
	out := make([]int, len(heights))
	for i, h := range heights {
		out[len(heights)-1-i] = h
	}
	return out
}

// BruteForceTrap scans both directions from every position. It is O(n^2)
// and only meant as an independent oracle for the fast implementations.
func BruteForceTrap(heights []int) int {
	water := 0
	for i := range heights {
		left, right := 0, 0
		for j := 0; j <= i; j++ {
			if heights[j] > left {
				left = heights[j]
			}
		}
		for j := i; j < len(heights); j++ {
			if heights[j] > right {
				right = heights[j]
			}
		}
		level := left
		if right < level {
			level = right
		}
		water += level - heights[i]
	}
	return water
}
