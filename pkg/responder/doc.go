// Package responder implements the reference YAP responder: a TCP server
// that answers one framed identifier per connection with the encoded value
// of the matching data point.
package responder
