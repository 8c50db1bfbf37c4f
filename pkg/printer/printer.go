package printer

import (
	"fmt"
	"net"
	"os"
	"time"
)

// Printer delivers a rendered receipt to the till printer as one raw job.
type Printer interface {
	// Print writes one complete job to the device.
	Print(data []byte) error
	// Close releases the underlying handle, if any.
	Close() error
	// IsConnected reports whether the device is currently reachable.
	IsConnected() bool
}

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
	pingTimeout  = 2 * time.Second
)

// usbPrinter writes jobs to a character device such as /dev/usb/lp0. The
// device file is opened and closed per job.
type usbPrinter struct {
	device string
}

// NewUSBPrinter returns a Printer backed by a USB device file.
func NewUSBPrinter(device string) Printer {
	return &usbPrinter{device: device}
}

func (p *usbPrinter) Print(data []byte) error {
	f, err := os.OpenFile(p.device, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.device, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.device, err)
	}
	return nil
}

func (p *usbPrinter) Close() error {
	return nil
}

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.device)
	return err == nil
}

// networkPrinter dials the printer's raw port per job, conventionally 9100.
type networkPrinter struct {
	addr string
}

// NewNetworkPrinter returns a Printer that dials addr over TCP. The address
// must carry the port, e.g. "192.168.1.50:9100".
func NewNetworkPrinter(addr string) Printer {
	return &networkPrinter{addr: addr}
}

func (p *networkPrinter) Print(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: dial %s: %w", p.addr, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.addr, err)
	}
	return nil
}

func (p *networkPrinter) Close() error {
	return nil
}

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.addr, pingTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// nullPrinter discards every job, for tills running without receipt
// hardware.
type nullPrinter struct{}

// NewNullPrinter returns a Printer that silently drops jobs.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print([]byte) error { return nil }

func (p *nullPrinter) Close() error { return nil }

func (p *nullPrinter) IsConnected() bool { return false }

// NewPrinterFromConfig builds a Printer from the configured kind: "usb"
// takes the device path, "network" the TCP address, and "none" or empty
// yields the null printer.
func NewPrinterFromConfig(kind, device, addr string) (Printer, error) {
	switch kind {
	case "usb":
		if device == "" {
			return nil, fmt.Errorf("printer: usb printer needs a device path")
		}
		return NewUSBPrinter(device), nil
	case "network":
		if addr == "" {
			return nil, fmt.Errorf("printer: network printer needs an address")
		}
		return NewNetworkPrinter(addr), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", kind)
	}
}
