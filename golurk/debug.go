package golurk

import "github.com/go-logr/logr"

// The zero logger discards everything until the host installs one
var internalLogger = logr.Discard()

func SetInternalLogger(logger logr.Logger) {
	internalLogger = logger.WithName("golurk")
}

var (
	damageLogger = func() logr.Logger {
		return internalLogger.WithName("damage")
	}
	abilityLogger = func() logr.Logger {
		return internalLogger.WithName("ability")
	}
	turnLogger = func() logr.Logger {
		return internalLogger.WithName("state_updater")
	}
	aiLogger = func() logr.Logger {
		return internalLogger.WithName("ai_move_selection")
	}
)
