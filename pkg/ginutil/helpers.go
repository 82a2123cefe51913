package ginutil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamUint64 extracts a positive uint64 from path parameters
func ParamUint64(c *gin.Context, key string) (uint64, error) {
	value, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return value, nil
}

// ParamInt64 extracts an int64 from path parameters
// Returns the parsed int64 and error if parsing fails
func ParamInt64(c *gin.Context, key string) (int64, error) {
	return strconv.ParseInt(c.Param(key), 10, 64)
}

// QueryInt64 extracts an optional int64 from query parameters.
// Returns nil when the parameter is absent.
func QueryInt64(c *gin.Context, key string) (*int64, error) {
	valueStr, ok := c.GetQuery(key)
	if !ok || valueStr == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", key, err)
	}
	return &value, nil
}

// QueryBool extracts a boolean from query parameters with default value
func QueryBool(c *gin.Context, key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return defaultValue
	}
	return value
}
