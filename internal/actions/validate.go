package actions

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports form input rejected before any request is sent.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%q is not a valid record %s", e.Value, e.Field)
}

// ParseID parses a record id typed by the user. Ids are positive integers.
func ParseID(raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, &ValidationError{Field: "id", Value: raw}
	}
	return id, nil
}
