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
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// WriteUploadToTemp persists raw upload bytes to a uniquely named file
// in the OS temp directory, with an extension sniffed from the content
// (magic bytes, not the client-supplied filename). ffmpeg keys container
// demuxing off the extension, so a correct one matters.
//
// Inputs:
//   - data: The raw bytes of the uploaded file.
//
// Outputs:
//   - string: Path to the written temp file. Caller owns cleanup.
//   - error: Non-nil when sniffing rejects the content or the write fails.
func WriteUploadToTemp(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("sniffing upload type: %w", err)
	}
	if kind == filetype.Unknown || kind.MIME.Type != "video" {
		return "", fmt.Errorf("%w: unsupported upload type %q", ErrUnreadableMedia, kind.MIME.Value)
	}
	ext := kind.Extension
	if kind == matchers.TypeMov {
		// ffmpeg prefers .mov over filetype's "mov" alias table variants.
		ext = "mov"
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("reelscope-%s.%s", uuid.NewString(), ext))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing upload to %s: %w", path, err)
	}
	return path, nil
}
