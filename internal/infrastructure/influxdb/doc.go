// Package influxdb records HTTP request metrics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Each handled
// request becomes one point in the "http_requests" measurement, tagged by
// route pattern, method and status, with the latency as a field.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB, onWriteError)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteRequestMetric("/todos/{id}", "GET", 200, 3*time.Millisecond)
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are non-blocking and
// batched according to batch_size and flush_interval; write failures are
// delivered to the handler passed to Connect.
package influxdb
