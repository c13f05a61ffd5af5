package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// requestMeasurement is the measurement name for HTTP request metrics.
const requestMeasurement = "http_requests"

// WriteRequestMetric records one handled HTTP request.
//
// Parameters:
//   - route: The matched route pattern (e.g., "/todos/{id}"), not the raw path
//   - method: HTTP method
//   - status: Response status code
//   - duration: Time spent handling the request
func (c *Client) WriteRequestMetric(route, method string, status int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(newRequestPoint(route, method, status, duration, time.Now()))
}

func newRequestPoint(route, method string, status int, duration time.Duration, ts time.Time) *write.Point {
	return write.NewPoint(
		requestMeasurement,
		map[string]string{
			"route":  route,
			"method": method,
			"status": strconv.Itoa(status),
		},
		map[string]any{
			"duration_ms": float64(duration.Microseconds()) / 1000,
			"count":       1,
		},
		ts,
	)
}
