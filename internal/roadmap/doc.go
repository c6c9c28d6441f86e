// Package roadmap holds the course/phase/task model, the operations that
// mutate it, and the projection that turns it into a renderable view.
//
// A State owns an ordered list of courses and an active-course cursor:
//
//	State
//	└── Course{Name, Phases}
//	    └── Phase{Title, Tasks, Completed, Pinned}
//	        └── Task{ID, Text}
//
// # Addressing
//
// Operations address phases and tasks by index, the same indices the
// View hands out (PhaseView.Index is the storage index, not the display
// position). Indices are a caller contract: passing an index that is out
// of range panics like any slice access.
//
// # Completion
//
// Completion is keyed by task ID, so deleting a task never moves the done
// flag of another task. Snapshots written by the browser version keyed
// completion by task position; the store package migrates them.
//
// # Course text format
//
// New courses are written in a line-based format:
//
//	# Phase One
//	Task A
//	Task B
//	# Phase Two
//	Task C
//
// A line starting with # opens a phase, other non-blank lines are tasks of
// the most recent phase, and lines before the first header are dropped.
package roadmap
