package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Sentinel queries scan one field of one record kind; pages stay small so a
// single request never materializes a large slice of records.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// ParsePagination reads the offset and limit query parameters.
// offset defaults to 0, limit defaults to DefaultPageLimit and is capped at MaxPageLimit.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, ok := intQuery(c, "offset", 0)
	if !ok || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, ok = intQuery(c, "limit", DefaultPageLimit)
	if !ok || limit < 1 || limit > MaxPageLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}

	return offset, limit, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}
