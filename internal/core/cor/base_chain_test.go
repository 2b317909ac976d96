// Copyright 2024 Google, LLC
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

// Package cor_test exercises the chain framework with small synthetic
// commands so the piping, precondition, and stop-on-error behavior can be
// verified without any external collaborator.
package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrnkim/brand-integration-assistant/internal/core/cor"
)

// appendCommand appends its own suffix to the string it finds in CtxIn.
type appendCommand struct {
	cor.BaseCommand
	suffix string
}

func newAppendCommand(name, suffix string) *appendCommand {
	return &appendCommand{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix}
}

func (c *appendCommand) Execute(ctx cor.Context) {
	in := ctx.Get(c.GetInputParam()).(string)
	ctx.Add(c.GetOutputParam(), in+c.suffix)
}

// failingCommand always records an error.
type failingCommand struct {
	cor.BaseCommand
}

func newFailingCommand(name string) *failingCommand {
	return &failingCommand{BaseCommand: *cor.NewBaseCommand(name)}
}

func (c *failingCommand) Execute(ctx cor.Context) {
	ctx.AddError(c.GetName(), errors.New("boom"))
}

func newTestContext(in string) cor.Context {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, in)
	return ctx
}

func TestChainPipesOutputToNextInput(t *testing.T) {
	chain := cor.NewBaseChain("pipe-test")
	chain.AddCommand(newAppendCommand("first", "-a"))
	chain.AddCommand(newAppendCommand("second", "-b"))

	ctx := newTestContext("start")
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	// After the final flip, the last command's output sits in CtxIn.
	assert.Equal(t, "start-a-b", ctx.Get(cor.CtxIn))
	assert.Nil(t, ctx.Get(cor.CtxOut))
}

func TestChainStopsAtFirstError(t *testing.T) {
	chain := cor.NewBaseChain("stop-test")
	chain.AddCommand(newAppendCommand("first", "-a"))
	chain.AddCommand(newFailingCommand("failing"))
	chain.AddCommand(newAppendCommand("never-runs", "-c"))

	ctx := newTestContext("start")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Contains(t, ctx.GetErrors(), "failing")
	// The third command never ran, so the first command's output is still
	// the latest value.
	assert.Equal(t, "start-a", ctx.Get(cor.CtxIn))
}

func TestChainContinueOnFailureRunsAllCommands(t *testing.T) {
	chain := cor.NewBaseChain("continue-test")
	chain.ContinueOnFailure(true)
	chain.AddCommand(newFailingCommand("failing"))
	chain.AddCommand(newAppendCommand("still-runs", "-b"))

	ctx := newTestContext("start")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Equal(t, "start-b", ctx.Get(cor.CtxIn))
}

func TestChainRecordsMissingInputAsError(t *testing.T) {
	chain := cor.NewBaseChain("precondition-test")
	chain.AddCommand(newAppendCommand("needs-input", "-a"))

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	// No CtxIn value: the command's precondition fails.
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Contains(t, ctx.GetErrors()["needs-input"].Error(), "missing its input")
}
