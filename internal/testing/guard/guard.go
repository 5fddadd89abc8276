// Package guard switches the process into test mode when imported, so
// packages that check app.InTestMode skip runtime side effects.
package guard

import (
	"os"
	"sync"
)

// EnvVar is the environment flag read by app.InTestMode.
const EnvVar = "BILLBOARD_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(EnvVar) == "" {
			_ = os.Setenv(EnvVar, "1")
		}
	})
}
