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

package cor

import (
	goctx "context"
	"errors"
	"testing"

	"github.com/zeebo/assert"
)

// appendCommand records its execution and pipes a marker forward.
type appendCommand struct {
	BaseCommand
	fail bool
	log  *[]string
}

func newAppendCommand(name string, fail bool, log *[]string) *appendCommand {
	return &appendCommand{BaseCommand: *NewBaseCommand(name), fail: fail, log: log}
}

func (c *appendCommand) Execute(context Context) {
	*c.log = append(*c.log, c.GetName())
	if c.fail {
		context.AddError(c.GetName(), errors.New("boom"))
		return
	}
	context.Add(c.GetOutputParam(), c.GetName())
}

func newTestContext() Context {
	ctx := NewBaseContext()
	ctx.SetContext(goctx.Background())
	ctx.Add(CtxIn, "seed")
	return ctx
}

func TestChainPipesOutputToInput(t *testing.T) {
	var log []string
	chain := NewBaseChain("test-chain")
	chain.AddCommand(newAppendCommand("first", false, &log))
	chain.AddCommand(newAppendCommand("second", false, &log))

	ctx := newTestContext()
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.DeepEqual(t, []string{"first", "second"}, log)
	// After the chain finishes, the last output has been piped to CtxIn.
	assert.Equal(t, "second", ctx.Get(CtxIn))
}

func TestChainStopsOnError(t *testing.T) {
	var log []string
	chain := NewBaseChain("test-chain")
	chain.AddCommand(newAppendCommand("first", true, &log))
	chain.AddCommand(newAppendCommand("second", false, &log))

	ctx := newTestContext()
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.DeepEqual(t, []string{"first"}, log)
}

func TestChainContinueOnFailure(t *testing.T) {
	var log []string
	chain := NewBaseChain("test-chain")
	chain.ContinueOnFailure(true)
	chain.AddCommand(newAppendCommand("first", true, &log))
	// A failed command pipes nothing forward, so the second command reads
	// a named parameter the way later pipeline stages do.
	second := newAppendCommand("second", false, &log)
	second.InputParamName = "seed_param"
	chain.AddCommand(second)

	ctx := newTestContext()
	ctx.Add("seed_param", "seed")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.DeepEqual(t, []string{"first", "second"}, log)
}

func TestContextProgressMonotonic(t *testing.T) {
	ctx := NewBaseContext()
	var seen []int
	ctx.OnProgress(func(p int) { seen = append(seen, p) })

	ctx.ReportProgress(20)
	ctx.ReportProgress(10) // must not move backward
	ctx.ReportProgress(40)
	ctx.ReportProgress(400) // clamps at 100

	assert.DeepEqual(t, []int{20, 40, 100}, seen)
}

func TestContextWarnings(t *testing.T) {
	ctx := NewBaseContext()
	assert.Equal(t, 0, len(ctx.GetWarnings()))

	ctx.AddWarning("one")
	ctx.AddWarning("two")
	assert.DeepEqual(t, []string{"one", "two"}, ctx.GetWarnings())
}
