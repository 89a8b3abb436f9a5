// Package catalog maps gate and observable names to instruction builders.
//
// Each simulator kind has a static catalog. Every entry has the same shape:
// a name, the opcode sent to the remote service, fixed wire and parameter
// counts, and a pure Build function. Lookups of unregistered names fail
// with an UNSUPPORTED_OPERATION error; arity violations fail with
// INVALID_ARGUMENT. Neither touches any payload.
package catalog
