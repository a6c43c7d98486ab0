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
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// ExtractAudio demuxes the audio track of a video into a standalone MP3
// in the OS temp directory closed to other readers. Transcription wants a
// small audio-only payload, not the full video.
//
// Inputs:
//   - ctx: Context bounding the subprocess.
//   - videoPath: Path to the source video on local disk.
//
// Outputs:
//   - string: Path to the written MP3. Caller owns cleanup.
//   - error: Non-nil when ffmpeg fails (e.g. no audio stream).
func ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	outPath := filepath.Join(os.TempDir(), fmt.Sprintf("reelscope-%s.mp3", uuid.NewString()))

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "4",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("extracting audio from %s: %w: %s", videoPath, err, stderr.String())
	}
	return outPath, nil
}
