package softuart

import "fmt"

// Config defines the fixed parameters of a transmitter.
type Config struct {
	BaudRate   uint
	Parity     Parity
	StopBits   uint
	BufferSize int
}

// Defaults
const (
	DefaultBaudRate   uint = 9600
	DefaultBufferSize int  = 64
)

var defaultConfig = Config{
	BaudRate:   DefaultBaudRate,
	StopBits:   DefaultStopBits,
	BufferSize: DefaultBufferSize,
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Format returns the frame format.
func (c *Config) Format() Format {
	return Format{Parity: c.Parity, StopBits: c.StopBits}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaudRate == 0 {
		return fmt.Errorf("baud rate must be positive")
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("invalid buffer size %d", c.BufferSize)
	}
	if c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("invalid stop bits %d", c.StopBits)
	}
	switch c.Parity {
	case ParityNone, ParityEven, ParityOdd:
	default:
		return fmt.Errorf("invalid parity %d", c.Parity)
	}
	return nil
}
