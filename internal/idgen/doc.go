// Package idgen generates definition and batch identifiers. Name based
// identifiers are stable for equal input; random ones can be stubbed in tests.
package idgen
