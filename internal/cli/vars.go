package cli

import (
	"github.com/valter-silva-au/datawork/internal/core"
	"github.com/valter-silva-au/datawork/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	TaskRepo    core.TaskRepository
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator

	// BasePath is the directory holding .dwconfig and the default data files.
	BasePath string
)
