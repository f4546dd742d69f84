package sobel

// State identifies lifecycle state of a Pool.
type State int

// Pool states.
const (
	// Created means that pool is ready to run.
	Created State = iota
	// Running means that workers are processing frames.
	Running
	// Stopped means that all workers returned.
	Stopped
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// role is what a worker does in the current frame cycle.
type role int

const (
	contending role = iota
	owning
	helping
	stopped
)

func (r role) String() string {
	switch r {
	case contending:
		return "contending"
	case owning:
		return "owner"
	case helping:
		return "helper"
	case stopped:
		return "stopped"
	}
	return "unknown"
}
