// Package circuit reads YAML circuit descriptions and executes them on a
// device.
//
//	name: hop
//	device: synqs.fs
//	shots: 50
//	operations:
//	  - {op: Load, wires: [0]}
//	  - {op: Hop, wires: [0, 1, 2, 3], params: [pi]}
//	measurements:
//	  - {expval: ParticleNumber, wires: [0, 1, 2, 3]}
//	  - {probs: [3]}
//
// Parameters are numbers or multiples of pi: pi, -pi, 2*pi, pi/2, 3*pi/4.
package circuit
