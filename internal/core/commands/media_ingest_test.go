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

package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/media"
)

// newStubbedIngest wires a MediaIngest against a fixed probe result so
// the gate can be exercised without ffprobe or a real container.
func newStubbedIngest(md *media.Metadata) *MediaIngest {
	cmd := NewMediaIngest("media_ingest", 60)
	cmd.OutputParamName = ParamVideoPath
	cmd.persist = func(_ []byte) (string, error) { return "upload.mp4", nil }
	cmd.probe = func(_ context.Context, _ string) (*media.Metadata, error) { return md, nil }
	return cmd
}

func TestMediaIngestRejectsOverlongVideo(t *testing.T) {
	cmd := newStubbedIngest(&media.Metadata{Duration: 70, FrameRate: 30, HasAudio: true})

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, []byte("video bytes"))

	cmd.Execute(ctx)

	require.True(t, ctx.HasErrors())
	for _, err := range ctx.GetErrors() {
		assert.True(t, errors.Is(err, ErrVideoTooLong))
	}
	// The rejection happens before the path or metadata are published, so
	// nothing downstream can run.
	assert.Nil(t, ctx.Get(ParamVideoPath))
	assert.Nil(t, ctx.Get(ParamVideoMetadata))
}

func TestMediaIngestAcceptsVideoAtLimit(t *testing.T) {
	cmd := newStubbedIngest(&media.Metadata{Duration: 60, FrameRate: 30, HasAudio: true})

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, []byte("video bytes"))

	cmd.Execute(ctx)

	require.False(t, ctx.HasErrors())
	assert.Equal(t, "upload.mp4", ctx.Get(ParamVideoPath))
	md := ctx.Get(ParamVideoMetadata).(*media.Metadata)
	assert.Equal(t, 60.0, md.Duration)
}

func TestMediaIngestPersistFailure(t *testing.T) {
	cmd := NewMediaIngest("media_ingest", 60)
	cmd.persist = func(_ []byte) (string, error) { return "", errors.New("disk full") }

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, []byte("video bytes"))

	cmd.Execute(ctx)

	assert.True(t, ctx.HasErrors())
}
