package feed

import (
	"fmt"
	"time"

	"github.com/labstack/gommon/random"
)

// SessionKey is the storage key clients keep their session identifier
// under for the lifetime of a tab.
const SessionKey = "cyberwareUserSessionId"

// NewSessionID generates an opaque per-client session identifier. It
// only gates delete permission on the holder's own posts; it is not an
// authentication credential.
func NewSessionID() string {
	suffix := random.String(7, random.Lowercase, random.Numeric)
	return fmt.Sprintf("sess-%d-%s", time.Now().UnixMilli(), suffix)
}
