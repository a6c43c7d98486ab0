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
	"image"
	"image/jpeg"
	"log/slog"
	"os/exec"
)

// ExtractFrame decodes a single frame at the given timestamp as JPEG.
// Seeks near a video's end can land past the last decodable frame; that
// is reported through ok=false rather than an error so callers can skip
// the scene instead of failing the run.
//
// Inputs:
//   - ctx: Context bounding the subprocess.
//   - videoPath: Path to the source video on local disk.
//   - atSeconds: Timestamp of the frame to extract.
//
// Outputs:
//   - image.Image: The decoded frame, nil when ok is false.
//   - []byte: The raw JPEG encoding of the frame, nil when ok is false.
//   - bool: Whether a frame was produced at the requested timestamp.
func ExtractFrame(ctx context.Context, videoPath string, atSeconds float64) (image.Image, []byte, bool) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(atSeconds),
		"-i", videoPath,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.Warn("frame extraction failed",
			slog.Float64("at_seconds", atSeconds),
			slog.String("error", err.Error()),
			slog.String("stderr", stderr.String()))
		return nil, nil, false
	}
	if stdout.Len() == 0 {
		// ffmpeg exits zero on a seek past the last frame but emits nothing.
		return nil, nil, false
	}

	raw := stdout.Bytes()
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		slog.Warn("frame decode failed",
			slog.Float64("at_seconds", atSeconds),
			slog.String("error", err.Error()))
		return nil, nil, false
	}
	return img, raw, true
}
