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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

func TestBuildSceneLinesCarriesPsychologyAndHook(t *testing.T) {
	results := []*model.SceneAnalysisResult{
		{
			SceneNo:              1,
			Start:                0,
			End:                  3.5,
			VisualDescription:    "A hand flips the product over to show the label",
			OnScreenText:         "Wait for it",
			Vibes:                "Playful",
			PsychologicalEffects: "Curiosity gap",
			HookFactor:           "Opens mid-action",
		},
		{
			SceneNo:              2,
			Start:                3.5,
			End:                  7,
			VisualDescription:    "Close-up of the price tag",
			PsychologicalEffects: "Anchoring",
			HookFactor:           "Price reveal",
		},
	}

	lines := buildSceneLines(results)
	split := strings.Split(strings.TrimRight(lines, "\n"), "\n")
	require.Len(t, split, 2)

	assert.Equal(t,
		"Scene 1 (0.00s-3.50s): A hand flips the product over to show the label (Psychology: Curiosity gap, Hook: Opens mid-action)",
		split[0])
	assert.Equal(t,
		"Scene 2 (3.50s-7.00s): Close-up of the price tag (Psychology: Anchoring, Hook: Price reveal)",
		split[1])
}

func TestBuildSceneLinesEmpty(t *testing.T) {
	assert.Empty(t, buildSceneLines(nil))
}
