// Package model contains the in-memory representation of compiled workflow
// definitions handed to the runtime orchestrator.
//
// A definition is produced from a DSL document by the convert service. The
// step graph lives in the `graph` sub-package, variables in `state`, parsed
// intervals in `duration` and compilation issues in `validation`.
package model
