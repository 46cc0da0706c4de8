// Package transport carries YAP requests to a responder and returns the
// decoded results.
//
// A Transport is opened, used for one or more reads and closed again:
//
//	t := transport.NewTCP("localhost:12345")
//	if err := t.Open(ctx); err != nil {
//		return err
//	}
//	defer t.Close()
//	res, err := t.Read(ctx, datapoint.SerialNumber)
//
// The reference responder answers a single request per connection, so
// TCP callers open a fresh connection for every data point.
package transport
