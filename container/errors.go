package container

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacity is returned by Insert on a full fixed-capacity container.
	ErrCapacity = errors.New("container at capacity")

	// ErrForeignNode is returned when a node handle does not belong to the
	// list it is passed to, or has already been removed.
	ErrForeignNode = errors.New("node does not belong to this list")

	// ErrUnknownVertex is returned for a vertex handle that is out of range
	// or refers to a removed vertex.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrConcurrentModification is the panic value raised when a container
	// is mutated while one of its iterators is being ranged over.
	ErrConcurrentModification = errors.New("container modified during iteration")
)

// CapacityError describes a rejected insert into a fixed-capacity container.
type CapacityError struct {
	Kind     string
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: capacity %d exceeded", e.Kind, e.Capacity)
}

// Is reports whether target is ErrCapacity.
func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }

// IsCapacity reports whether err is a capacity failure.
func IsCapacity(err error) bool {
	return errors.Is(err, ErrCapacity)
}
