// Package app wires the collection and ansible cores to their
// adapters and exposes the operations the CLI invokes.
package app

import (
	"collection-sessions/internal/adapters"
	"collection-sessions/internal/collection"
	"collection-sessions/internal/ports"
)

type Service struct {
	Cache     *collection.Cache
	Runner    ports.Runner
	DepsFiles ports.DepsFilePort
}

func NewService() Service {
	return Service{
		Cache:     collection.NewCache(),
		Runner:    adapters.NewExecRunner(),
		DepsFiles: adapters.NewDepsFileAdapter(),
	}
}
