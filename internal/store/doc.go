// Package store loads and saves the roadmap snapshot file.
//
// The snapshot is one document holding every course. It is read once at
// startup and rewritten in full after every change:
//
//	{
//	  "schema_version": 2,
//	  "courses": [
//	    {
//	      "name": "DSA Mastery",
//	      "phases": [
//	        {
//	          "title": "PHASE 0: Foundations",
//	          "pinned": false,
//	          "tasks": [{"id": "…", "text": "Complexity (Big-O)"}],
//	          "completed": {"…": true}
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// # Formats
//
// The file extension picks the codec:
//   - .json, .jsonc: JSON, written with 2-space indentation and a trailing
//     newline. Comments are tolerated on read.
//   - .yaml, .yml: YAML
//   - .cbor: CBOR with core deterministic encoding
//
// Whatever the codec, the decoded document is checked against the
// embedded JSON Schema for its version before it is used.
//
// # Versions
//
// Version 1 is the bare array the browser build kept in localStorage:
//
//	[{"name": "…", "data": [{"title": "…", "tasks": ["…"], "completed": {"0": true}}]}]
//
// Migrate turns it into version 2: every task gets an ID, completion is
// re-keyed from task position to task ID, and a missing pinned flag
// becomes false.
//
// In either version a course or phase missing a field loads with that
// field empty. Completion entries that name no task are dropped with a
// warning.
//
// # Failure modes
//
// A missing file, or content that cannot be decoded or does not have the
// overall shape of a snapshot, loads as "no snapshot" so the caller seeds a fresh state. Only
// I/O errors are returned.
package store
