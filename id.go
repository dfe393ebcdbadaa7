package agentutils

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ID prefix constants for different entity types.
const (
	PrefixShell = "shell"
	PrefixTask  = "task"
	PrefixAgent = "agt"
)

// GenerateID produces a unique identifier with the given prefix and embedded
// timestamp. Format: {prefix}_{YYYYMMDDTHHmmss}_{16 hex chars},
// e.g. "agt_20260830T150405_a1b2c3d4e5f6a7b8".
//
// Handles for background shells and tasks do not use this; they come from a
// HandleRegistry counter so they stay short and sequential ("shell_1").
// GenerateID is for identifiers that must be unguessable or survive outside
// the process, such as subagent resume tokens.
func GenerateID(prefix string) string {
	ts := time.Now().UTC().Format("20060102T150405")
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return prefix + "_" + ts + "_" + hex.EncodeToString(b)
}
