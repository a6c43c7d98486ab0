// Copyright 2025 Reelscope, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIntervalsNoCuts(t *testing.T) {
	intervals := BuildIntervals(nil, 42.5, 30, 30)
	require.Len(t, intervals, 1)
	assert.Equal(t, 0.0, intervals[0].Start)
	assert.Equal(t, 42.5, intervals[0].End)
}

func TestBuildIntervalsContiguous(t *testing.T) {
	intervals := BuildIntervals([]float64{5.0, 12.5, 30.0}, 45.0, 30, 30)
	require.Len(t, intervals, 4)

	assert.Equal(t, 0.0, intervals[0].Start)
	for i := 1; i < len(intervals); i++ {
		assert.Equal(t, intervals[i-1].End, intervals[i].Start, "intervals must be contiguous")
	}
	assert.Equal(t, 45.0, intervals[len(intervals)-1].End)
}

func TestBuildIntervalsMinSceneLen(t *testing.T) {
	// At 30 fps a 30-frame floor is one second: the 5.4s cut comes only
	// 0.4s after the honored 5.0s boundary and must be dropped.
	intervals := BuildIntervals([]float64{5.0, 5.4, 10.0}, 20.0, 30, 30)
	require.Len(t, intervals, 3)
	assert.Equal(t, 5.0, intervals[1].Start)
	assert.Equal(t, 10.0, intervals[1].End)
}

func TestBuildIntervalsIgnoresOutOfRangeCuts(t *testing.T) {
	intervals := BuildIntervals([]float64{-1.0, 0.0, 60.0, 61.0, 8.0}, 60.0, 30, 30)
	require.Len(t, intervals, 2)
	assert.Equal(t, 8.0, intervals[0].End)
	assert.Equal(t, 60.0, intervals[1].End)
}

func TestBuildIntervalsUnsortedCuts(t *testing.T) {
	intervals := BuildIntervals([]float64{12.0, 4.0}, 20.0, 30, 30)
	require.Len(t, intervals, 3)
	assert.Equal(t, 4.0, intervals[0].End)
	assert.Equal(t, 12.0, intervals[1].End)
}

func TestBuildIntervalsZeroDuration(t *testing.T) {
	assert.Nil(t, BuildIntervals([]float64{1.0}, 0, 30, 30))
}

func TestParseShowinfoCuts(t *testing.T) {
	stderr := `
[Parsed_showinfo_1 @ 0x55] n:   0 pts:  10752 pts_time:4.48    duration_time:0.04
[Parsed_showinfo_1 @ 0x55] n:   1 pts:  26880 pts_time:11.2    duration_time:0.04
frame=    2 fps=0.0 q=-0.0 Lsize=N/A time=00:00:29.97
`
	cuts := parseShowinfoCuts(stderr)
	require.Len(t, cuts, 2)
	assert.InDelta(t, 4.48, cuts[0], 1e-9)
	assert.InDelta(t, 11.2, cuts[1], 1e-9)
}

func TestParseShowinfoCutsEmpty(t *testing.T) {
	assert.Empty(t, parseShowinfoCuts("frame=    0 fps=0.0"))
}
