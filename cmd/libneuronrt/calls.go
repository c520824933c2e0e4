package main

import (
	"neuronshim/internal/runtime"
	"neuronshim/pkg/types"
)

// handles holds the live runtimes by id. exports.go maps each id to the C
// address callers see, so no Go memory crosses the boundary.
var handles runtime.Handles

// shim returns the process context. Tests replace it.
var shim = runtime.Default

func create(rc *types.RuntimeConfig) (uintptr, error) {
	r, err := shim().Create(rc)
	if err != nil {
		return 0, err
	}
	return handles.Put(r), nil
}

// release removes the handle first so a second release of the same pointer
// reads as null instead of reaching a closed session.
func release(id uintptr) error {
	return handles.Delete(id).Release()
}

func lookup(id uintptr) *runtime.Runtime { return handles.Get(id) }

func code(err error) types.ErrorCode { return runtime.Code(err) }
