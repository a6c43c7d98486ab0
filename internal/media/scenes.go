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
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

// sceneScoreScale maps the user-facing threshold range (roughly 10-50,
// calibrated against content-detector conventions) onto ffmpeg's 0.0-1.0
// scene change score.
const sceneScoreScale = 100.0

// showinfoPtsTime matches the presentation timestamp ffmpeg's showinfo
// filter prints for each frame that survives the scene-select filter.
var showinfoPtsTime = regexp.MustCompile(`pts_time:\s*([0-9]+(?:\.[0-9]+)?)`)

// DetectScenes segments a video into contiguous scene intervals using
// ffmpeg's content-based scene change score.
//
// Logic Flow:
//  1. Probe the container for duration and frame rate.
//  2. Run ffmpeg with select='gt(scene,T)' piped into showinfo and
//     harvest the cut timestamps from stderr.
//  3. Fold the cuts into intervals, dropping cuts that would produce a
//     scene shorter than minSceneLen frames.
//  4. When no cut survives, the whole video is a single scene.
//
// Inputs:
//   - ctx: Context bounding the subprocess.
//   - videoPath: Path to the source video on local disk.
//   - threshold: Detector sensitivity; lower values cut more aggressively.
//   - minSceneLen: Minimum scene length in frames.
//
// Outputs:
//   - []model.SceneInterval: Contiguous intervals covering [0, duration].
//   - error: Non-nil when probing or the detector subprocess fails.
func DetectScenes(ctx context.Context, videoPath string, threshold float64, minSceneLen int) ([]model.SceneInterval, error) {
	md, err := Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select='gt(scene,%.4f)',showinfo", threshold/sceneScoreScale),
		"-an",
		"-f", "null",
		"-",
	)

	// showinfo reports on stderr alongside ffmpeg's own chatter.
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("scene detection on %s: %w: %s", videoPath, err, stderr.String())
	}

	cuts := parseShowinfoCuts(stderr.String())
	return BuildIntervals(cuts, md.Duration, md.FrameRate, minSceneLen), nil
}

// parseShowinfoCuts extracts cut timestamps from showinfo output.
func parseShowinfoCuts(out string) []float64 {
	matches := showinfoPtsTime.FindAllStringSubmatch(out, -1)
	cuts := make([]float64, 0, len(matches))
	for _, m := range matches {
		t, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		cuts = append(cuts, t)
	}
	return cuts
}

// BuildIntervals folds cut timestamps into contiguous scene intervals
// spanning [0, duration]. A cut is honored only when it starts at least
// minSceneLen frames after the previous honored boundary; remaining cuts
// fence-post the intervals. Exported for direct testing.
func BuildIntervals(cuts []float64, duration, frameRate float64, minSceneLen int) []model.SceneInterval {
	if duration <= 0 {
		return nil
	}

	minSeconds := 0.0
	if frameRate > 0 && minSceneLen > 0 {
		minSeconds = float64(minSceneLen) / frameRate
	}

	sorted := append([]float64(nil), cuts...)
	sort.Float64s(sorted)

	boundaries := []float64{0}
	prev := 0.0
	for _, t := range sorted {
		if t <= prev || t >= duration {
			continue
		}
		if t-prev < minSeconds {
			continue
		}
		boundaries = append(boundaries, t)
		prev = t
	}

	intervals := make([]model.SceneInterval, 0, len(boundaries))
	for i, start := range boundaries {
		end := duration
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		intervals = append(intervals, model.SceneInterval{Start: start, End: end})
	}
	return intervals
}

// formatSeconds renders a timestamp for ffmpeg CLI arguments.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
