// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mcsmith/internal/adapters/config"
	_ "go.trai.ch/mcsmith/internal/adapters/fetch"
	_ "go.trai.ch/mcsmith/internal/adapters/lockstore"
	_ "go.trai.ch/mcsmith/internal/adapters/logger"
	_ "go.trai.ch/mcsmith/internal/adapters/metacache"
	_ "go.trai.ch/mcsmith/internal/adapters/metrics"
	_ "go.trai.ch/mcsmith/internal/adapters/prompt"
	_ "go.trai.ch/mcsmith/internal/adapters/sources"
	_ "go.trai.ch/mcsmith/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/mcsmith/internal/app"
	_ "go.trai.ch/mcsmith/internal/engine/pipeline"
)
