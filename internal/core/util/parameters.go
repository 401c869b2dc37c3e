package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/gin-gonic/gin"
)

var ErrUnknownField = errors.New("unknown field")

func ParamsToMap[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		return params, err
	}

	return params, nil
}

// BindAllowed decodes the JSON body into params after checking that
// every payload key is in allowed. One foreign key rejects everything.
func BindAllowed[T any](c *gin.Context, allowed []string) (T, error) {
	var params T

	body, err := io.ReadAll(c.Request.Body)

	if err != nil {
		return params, err
	}

	var keys map[string]json.RawMessage

	if err := json.Unmarshal(body, &keys); err != nil {
		return params, err
	}

	for key := range keys {
		if !slices.Contains(allowed, key) {
			return params, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
	}

	if err := json.Unmarshal(body, &params); err != nil {
		return params, err
	}

	return params, nil
}
