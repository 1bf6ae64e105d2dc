package rf

import (
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialSender writes beacon frames to a UART-attached RF transmitter
// (HC-12 class module). Framing beyond a trailing newline is handled by the
// module firmware.
type SerialSender struct {
	port io.ReadWriteCloser
}

// NewSerialSender opens the transmitter's serial port.
func NewSerialSender(portName string, baudRate uint) (*SerialSender, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	})
	if err != nil {
		return nil, fmt.Errorf("rf: open serial port %s: %w", portName, err)
	}
	return &SerialSender{port: port}, nil
}

// Send writes one frame. Blocks until the UART accepted the bytes or the
// driver reported a failure; there is no delivery confirmation.
func (s *SerialSender) Send(payload []byte) error {
	frame := append(append([]byte(nil), payload...), '\n')
	if _, err := s.port.Write(frame); err != nil {
		return fmt.Errorf("rf: send: %w", err)
	}
	return nil
}

// Close releases the serial port.
func (s *SerialSender) Close() error {
	return s.port.Close()
}
