// Package thunk synthesizes bounds-checked wrappers for declarations that
// take raw pointer and length arguments.
//
// A run takes one declaration and its annotations and goes through five
// stages: parse the annotations into ParamInfo records, resolve escaping and
// lifetime facts, validate positions, order the records and fold them into a
// builder chain, then emit the wrapper declaration. Every stage works on an
// explicit DeclContext; nothing is shared between runs, so declarations may
// be synthesized in parallel as long as each run has its own reporter.
package thunk
