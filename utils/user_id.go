package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateUserID() string {
	return uuid.New().String()
}

// GenerateLocalID builds a timestamp-derived fallback id for records created
// while the remote store is unreachable.
func GenerateLocalID() string {
	return fmt.Sprintf("local-%d", time.Now().UnixNano())
}
