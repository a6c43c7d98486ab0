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

const sampleProbeJSON = `{
  "streams": [
    {"codec_type": "video", "r_frame_rate": "30000/1001", "avg_frame_rate": "30000/1001"},
    {"codec_type": "audio", "r_frame_rate": "0/0", "avg_frame_rate": "0/0"}
  ],
  "format": {"duration": "29.970000"}
}`

func TestParseProbeOutput(t *testing.T) {
	md, err := parseProbeOutput([]byte(sampleProbeJSON))
	require.NoError(t, err)
	assert.InDelta(t, 29.97, md.Duration, 1e-6)
	assert.InDelta(t, 29.97, md.FrameRate, 0.01)
	assert.True(t, md.HasAudio)
}

func TestParseProbeOutputNoAudio(t *testing.T) {
	raw := `{
  "streams": [{"codec_type": "video", "avg_frame_rate": "25/1"}],
  "format": {"duration": "12.0"}
}`
	md, err := parseProbeOutput([]byte(raw))
	require.NoError(t, err)
	assert.False(t, md.HasAudio)
	assert.Equal(t, 25.0, md.FrameRate)
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	raw := `{
  "streams": [{"codec_type": "audio"}],
  "format": {"duration": "12.0"}
}`
	_, err := parseProbeOutput([]byte(raw))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableMedia)
}

func TestParseProbeOutputMissingDuration(t *testing.T) {
	_, err := parseProbeOutput([]byte(`{"streams": [], "format": {}}`))
	assert.ErrorIs(t, err, ErrUnreadableMedia)
}

func TestParseProbeOutputGarbage(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	assert.ErrorIs(t, err, ErrUnreadableMedia)
}

func TestParseFrameRate(t *testing.T) {
	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.01)
	assert.Equal(t, 25.0, parseFrameRate("25/1"))
	assert.Equal(t, 24.0, parseFrameRate("24"))
	assert.Equal(t, 0.0, parseFrameRate("0/0"))
	assert.Equal(t, 0.0, parseFrameRate(""))
	assert.Equal(t, 0.0, parseFrameRate("x/y"))
}
