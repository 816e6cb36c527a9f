package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateRunID generates a unique id for one harness run
func GenerateRunID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		// Fallback to timestamp if the random source fails
		return fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	return id.String()
}
