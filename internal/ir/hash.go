package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainPayload = "synqs/payload/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PayloadHash computes the content-addressed identity of an experiment.
// Two payloads with the same device, instructions, wire count and shot
// count always hash to the same value.
func PayloadHash(device string, instructions []Instruction, numWires, shots int) (string, error) {
	obj := map[string]any{
		"device":       device,
		"instructions": instructions,
		"num_wires":    numWires,
		"shots":        shots,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("PayloadHash: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainPayload, canonical), nil
}
