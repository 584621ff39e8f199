package main

// Plugin packages register themselves at load time; the blank imports pull
// them into the binary.
import (
	_ "github.com/benchwrap/benchwrap/internal/benchmark/uperf"
	_ "github.com/benchwrap/benchwrap/internal/collector/pbench"
)
