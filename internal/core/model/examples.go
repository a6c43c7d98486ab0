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

// Package model defines the data structures for the application. This
// file provides factory functions for hardcoded example instances used
// for few-shot prompting: embedding a concrete example of the desired
// JSON output in the prompt keeps the model's responses consistent,
// correctly formatted, and parsable.
package model

// GetExampleSceneAnalysis creates a sample SceneAnalysisFields object
// showing the vision model the expected JSON structure for a single
// scene, including the persuasion-technique vocabulary expected in
// psychological_effects.
//
// Outputs:
//   - *SceneAnalysisFields: A pointer to a hardcoded example.
func GetExampleSceneAnalysis() *SceneAnalysisFields {
	return &SceneAnalysisFields{
		VisualContent:        "A young woman holds a serum bottle up to the camera in a brightly lit bathroom, pointing at the label.",
		OnScreenText:         "I stopped using moisturizer. Here's why. | Day 14 results below",
		Vibes:                "Confessional, urgent, filmed selfie-style to feel like advice from a friend.",
		PsychologicalEffects: "Curiosity gap (withholds the reason), social proof (before/after framing), scarcity (limited batch mention).",
		HookFactor:           "Opens with a contrarian claim against a universal habit, creating immediate incongruity that stops the scroll.",
	}
}
