package chainrpc

import (
	"time"
)

const rpcCallTimeout = 10 * time.Second

// Block timestamps are stored in the timezone the analytics dashboards
// render, UTC+05:30.
var displayLocation = time.FixedZone("IST", 5*60*60+30*60)

func civilTime(epochSeconds int64) time.Time {
	return time.Unix(epochSeconds, 0).In(displayLocation)
}
