//go:build !tinygo

package softuart

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
)

func init() {
	for _, err := range loadEnv(&defaultConfig, os.Getenv) {
		glog.Warningf("ignore environment: %v", err)
	}
}

// loadEnv overrides conf from SOFTUART_* variables. Invalid values leave
// the field unchanged and are returned.
func loadEnv(conf *Config, getenv func(string) string) (errs []error) {
	if val := getenv("SOFTUART_BAUD"); val != "" {
		if n, err := strconv.ParseUint(val, 10, 32); err == nil {
			conf.BaudRate = uint(n)
		} else {
			errs = append(errs, fmt.Errorf("SOFTUART_BAUD=%q: %v", val, err))
		}
	}
	if val := getenv("SOFTUART_PARITY"); val != "" {
		if err := conf.Parity.Set(val); err != nil {
			errs = append(errs, fmt.Errorf("SOFTUART_PARITY: %v", err))
		}
	}
	if val := getenv("SOFTUART_BUFFER"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			conf.BufferSize = n
		} else {
			errs = append(errs, fmt.Errorf("SOFTUART_BUFFER=%q: %v", val, err))
		}
	}
	return errs
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.UintVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate (bits/s).")
	flag.Var(&defaultConfig.Parity, "parity", "Parity: none, even or odd.")
	flag.UintVar(&defaultConfig.StopBits, "stop-bits", defaultConfig.StopBits, "Number of stop bits (1 or 2).")
	flag.IntVar(&defaultConfig.BufferSize, "buffer", defaultConfig.BufferSize, "Transmit queue capacity in bytes.")
}
