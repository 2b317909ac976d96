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

// Package cor (Chain of Responsibility) is the building-block framework
// for the enrichment pipeline. A workflow is a Chain of Commands sharing
// a Context; each command reads its input from the context, does one unit
// of work, and writes its output back for the next command. This file
// defines the interfaces.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// CtxIn is the default key a command reads its primary input from.
	// The chain populates it with the previous command's output.
	CtxIn = "__IN__"
	// CtxOut is the default key a command writes its primary output to.
	CtxOut = "__OUT__"
)

// Context is the shared state bag for one workflow execution. It carries
// data between commands, collects per-command errors, and holds the Go
// context for cancellation and tracing.
type Context interface {
	// SetContext sets the standard Go context for this execution.
	SetContext(context context.Context)

	// GetContext returns the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair; returns the Context for chaining.
	Add(key string, value interface{}) Context

	// Get retrieves a value by key; nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// AddError records an error under the producing command's name.
	AddError(key string, err error)

	// GetErrors returns all errors collected so far.
	GetErrors() map[string]error

	// HasErrors reports whether any command recorded an error.
	HasErrors() bool
}

// Executable is anything with a core execution step.
type Executable interface {
	// Execute performs the unit of work against the shared context.
	Execute(context Context)
}

// Command is an atomic, named, instrumented unit of work.
type Command interface {
	Executable

	// GetName returns the command's name, used in traces and metrics.
	GetName() string

	// GetInputParam returns the context key for this command's input.
	GetInputParam() string

	// GetOutputParam returns the context key for this command's output.
	GetOutputParam() string

	// IsExecutable reports whether the context carries what this command
	// needs; a precondition check before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the command's OpenTelemetry tracer.
	GetTracer() trace.Tracer

	// GetMeter returns the command's OpenTelemetry meter.
	GetMeter() metric.Meter

	// GetSuccessCounter counts successful executions.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter counts failed executions.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command,
// so chains nest.
type Chain interface {
	Command

	// ContinueOnFailure configures whether later commands still run after
	// one records an error. Default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
