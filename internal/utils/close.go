package utils

import (
	"io"

	"github.com/MrSnakeDoc/timemark/internal/logger"
)

// CloseLogged closes c and logs a failure under name.
// Use in shutdown paths where a close error is worth seeing but not fatal.
func CloseLogged(c io.Closer, name string, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("component", name), logger.Error(err))
		return
	}
	log.Debug("closed", logger.String("component", name))
}
