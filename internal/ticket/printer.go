package ticket

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

var (
	// ErrPrinterUnavailable means no print device is configured. Expected in
	// setups without a kitchen printer; never a crash.
	ErrPrinterUnavailable = errors.New("no printer configured")
	// ErrPrintDispatch means a configured device rejected the payload.
	ErrPrintDispatch = errors.New("failed to dispatch ticket to printer")
)

// Client is the opaque byte sink tickets are sent to.
type Client interface {
	Print(payload []byte) error
}

// DeviceClient writes payloads to a spooler device path. The device is
// resolved once at construction; an empty path yields a disabled client whose
// every print attempt reports ErrPrinterUnavailable.
type DeviceClient struct {
	device string
}

func NewDeviceClient(device string) *DeviceClient {
	if device == "" {
		log.Warn().Msg("no printer device configured, ticket printing disabled")
	}
	return &DeviceClient{device: device}
}

// Available reports whether a device was configured.
func (c *DeviceClient) Available() bool {
	return c.device != ""
}

func (c *DeviceClient) Print(payload []byte) error {
	if c.device == "" {
		return ErrPrinterUnavailable
	}

	f, err := os.OpenFile(c.device, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrPrintDispatch, c.device, err)
	}
	defer f.Close()

	if _, err := f.Write(payload); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPrintDispatch, c.device, err)
	}

	return nil
}
