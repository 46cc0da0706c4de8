package cobs

const (
	// Default maximum frame length including control and delimiter bytes (1KB)
	defaultMaxLength = 1024
)

// config holds decoder configuration.
type config struct {
	maxLength int
}

// Option configures a Decoder.
type Option func(*config)

// MaxLength sets the maximum allowed frame length in bytes, counting the
// control byte and the trailing delimiter. Longer frames return ErrTooLarge.
//
// Default: 1KB (1024 bytes)
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}
