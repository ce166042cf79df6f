package health

import (
	"fmt"
	"time"
)

func errNotHealthy(timeout time.Duration) error {
	return fmt.Errorf("startup aborted: dependencies not healthy within %s", timeout)
}
