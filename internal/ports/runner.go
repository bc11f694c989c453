// Package ports declares the interfaces through which the core talks
// to its environment.  Production adapters live in internal/adapters;
// tests substitute scripted fakes.
package ports

import "context"

// Runner executes an external command and captures its output.  A
// nonzero exit status must be reported as an error; there is no
// streaming and no timeout control beyond ctx.
type Runner interface {
	Run(ctx context.Context, argv []string) (stdout []byte, stderr []byte, err error)
}

// DepsFilePort reads collection dependency files and returns the
// collection names they require.
type DepsFilePort interface {
	Collections(path string) ([]string, error)
}
