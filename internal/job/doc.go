// Package job accumulates instructions into the experiment payload that a
// remote simulator runs.
//
// An Accumulator is created per execution, receives gate instructions in
// call order and is frozen once measurement instructions are appended.
// A frozen payload is never mutated again.
package job
