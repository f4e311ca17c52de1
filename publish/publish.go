// Package publish pushes an exported catalog file to a remote target.
package publish

import (
	"context"
	"fmt"
)

// Input is one file to publish.
type Input struct {
	// Path is the destination path or key on the target, slash-separated.
	Path    string
	Content []byte
	Message string
}

// Output describes what the target did with the file.
type Output struct {
	// Created is true when the file did not exist before.
	Created  bool
	Location string
	Version  string
}

// Publisher is implemented by every publish target.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, in Input) (*Output, error)
}

// Error wraps any failure reported by a publish target, so callers can tell
// publish failures apart from export failures.
type Error struct {
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish to %s: %v", e.Target, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
