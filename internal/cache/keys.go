package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func RequestStatusKey(requestID uuid.UUID) string {
	return fmt.Sprintf("optimize:status:%s", requestID)
}

func RateLimitKey(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s", clientKey)
}
