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

package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoRoundSourceFirstCallReturnsImmediately(t *testing.T) {
	src := newDemoRoundSource(time.Hour)
	stop := make(chan struct{})

	start := time.Now()
	params, ok := src.Next(stop)
	require.True(t, ok)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.EqualValues(t, 1, params.Height)
}

func TestDemoRoundSourceIncrementsHeightEachCall(t *testing.T) {
	src := newDemoRoundSource(time.Millisecond)
	stop := make(chan struct{})

	first, ok := src.Next(stop)
	require.True(t, ok)
	second, ok := src.Next(stop)
	require.True(t, ok)

	assert.Equal(t, first.Height+1, second.Height)
}

func TestDemoRoundSourceStopsWhenStopCloses(t *testing.T) {
	src := newDemoRoundSource(time.Hour)
	stop := make(chan struct{})

	_, ok := src.Next(stop)
	require.True(t, ok)

	close(stop)
	_, ok = src.Next(stop)
	assert.False(t, ok)
}
