package errors

import (
	"errors"
)

// Sentinel errors for different categories
var (
	// ErrDuplicateTool - a tool with this name is already registered
	ErrDuplicateTool = errors.New("duplicate tool")

	// ErrUnknownTool - the model requested a tool that is not in the registry
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments - tool arguments failed schema validation
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrToolExecution - a registered tool failed (or panicked) while running
	ErrToolExecution = errors.New("tool execution failed")

	// ErrMalformedModelOutput - model output is neither a final answer nor a
	// well-formed tool invocation
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrNotFound - resource not found (model name, session, transcript)
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput - invalid caller-side input (config, CLI arguments)
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransient - transient infrastructure error (network, rate limit)
	ErrTransient = errors.New("transient error")

	// ErrInternal - internal error
	ErrInternal = errors.New("internal error")
)
