// Copyright 2025 The Signum-Miner Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 1, q.Pop())
	assert.Equal(t, 2, q.Pop())
	assert.Equal(t, 3, q.Pop())
	assert.True(t, q.IsEmpty())
}

func TestQueuePopEmptyPanics(t *testing.T) {
	q := NewQueue[int]()
	assert.Panics(t, func() { q.Pop() })
}

func TestBoundedWindowDropsOldest(t *testing.T) {
	w := NewBoundedWindow[int](3)
	for i := 1; i <= 5; i++ {
		w.Push(i)
	}

	assert.Equal(t, []int{3, 4, 5}, w.Values())
}
