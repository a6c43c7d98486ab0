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

// Package media wraps the ffmpeg/ffprobe tooling used to inspect and
// decompose uploaded videos: container probing, temp-file ingest, audio
// track extraction, representative-frame extraction, and content-based
// scene segmentation. Everything in this package shells out to the
// ffmpeg binaries; nothing here talks to a model service.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrUnreadableMedia indicates the uploaded container could not be opened
// or carried no usable metadata. It is a terminal, user-visible rejection.
var ErrUnreadableMedia = errors.New("media: unreadable container")

// Metadata is the container-level information extracted at ingest.
type Metadata struct {
	Duration  float64 // Total duration in seconds.
	FrameRate float64 // Frames per second of the primary video stream.
	HasAudio  bool    // Whether the container carries an audio stream.
}

// probeOutput mirrors the subset of ffprobe's JSON output we consume.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// Probe reads container metadata with ffprobe.
//
// Inputs:
//   - ctx: Context bounding the subprocess.
//   - path: Path to the media file on local disk.
//
// Outputs:
//   - *Metadata: Duration, frame rate, and audio presence.
//   - error: ErrUnreadableMedia-wrapped when the container cannot be opened.
func Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffprobe failed: %v: %s", ErrUnreadableMedia, err, stderr.String())
	}
	return parseProbeOutput(stdout.Bytes())
}

// parseProbeOutput decodes ffprobe JSON into Metadata. Split out from
// Probe so the parsing is testable without the binary.
func parseProbeOutput(raw []byte) (*Metadata, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: bad ffprobe output: %v", ErrUnreadableMedia, err)
	}
	if out.Format.Duration == "" {
		return nil, fmt.Errorf("%w: no duration in container metadata", ErrUnreadableMedia)
	}
	duration, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad duration %q: %v", ErrUnreadableMedia, out.Format.Duration, err)
	}

	md := &Metadata{Duration: duration}
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if md.FrameRate == 0 {
				rate := s.AvgFrameRate
				if rate == "" || rate == "0/0" {
					rate = s.RFrameRate
				}
				md.FrameRate = parseFrameRate(rate)
			}
		case "audio":
			md.HasAudio = true
		}
	}
	if md.FrameRate == 0 {
		// A container with no decodable video stream is useless here.
		return nil, fmt.Errorf("%w: no video stream", ErrUnreadableMedia)
	}
	return md, nil
}

// parseFrameRate converts ffprobe's rational frame rate ("30000/1001")
// into frames per second. Returns 0 for unparsable input.
func parseFrameRate(in string) float64 {
	if in == "" {
		return 0
	}
	num, den, found := strings.Cut(in, "/")
	if !found {
		v, err := strconv.ParseFloat(in, 64)
		if err != nil {
			return 0
		}
		return v
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
