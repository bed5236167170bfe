// Package metagen discovers Java beans and the properties their metamodel
// classes describe.
//
// Discovery works on the read-only Type interface, so the same engine
// serves a batch build over a source tree and a language server that
// re-analyzes edited files. Space keeps the discovered Bean trees keyed by
// top-level type between passes.
package metagen
