// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cellular

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialModem talks to a SIM800-class GSM modem over UART using text-mode
// SMS AT commands.
type SerialModem struct {
	port   io.ReadWriteCloser
	reader *bufio.Reader
}

// NewSerialModem opens the modem port and verifies the SIM is registered.
// The InterCharacterTimeout keeps response reads from hanging the caller
// when the modem goes silent.
func NewSerialModem(portName string, baudRate uint) (*SerialModem, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		InterCharacterTimeout: 500,
		ParityMode:            serial.PARITY_NONE,
	})
	if err != nil {
		return nil, fmt.Errorf("cellular: open serial port %s: %w", portName, err)
	}

	m := newModem(port)

	if err := m.command("AT"); err != nil {
		port.Close()
		return nil, fmt.Errorf("cellular: modem not responding: %w", err)
	}
	if err := m.command("AT+CPIN?"); err != nil {
		port.Close()
		return nil, fmt.Errorf("cellular: SIM not ready: %w", err)
	}
	if err := m.command("AT+CMGF=1"); err != nil {
		port.Close()
		return nil, fmt.Errorf("cellular: set text mode: %w", err)
	}

	return m, nil
}

// newModem wraps an already-open port. Split from NewSerialModem so the
// AT dialog can be exercised against a scripted port.
func newModem(port io.ReadWriteCloser) *SerialModem {
	return &SerialModem{port: port, reader: bufio.NewReader(port)}
}

// SendSMS delivers one text message. One attempt, no queuing.
func (m *SerialModem) SendSMS(destination, text string) error {
	if _, err := fmt.Fprintf(m.port, "AT+CMGS=\"%s\"\r", destination); err != nil {
		return fmt.Errorf("cellular: write CMGS: %w", err)
	}
	if err := m.waitForPrompt(); err != nil {
		return fmt.Errorf("cellular: no SMS prompt: %w", err)
	}
	// Message body terminated by Ctrl+Z.
	if _, err := fmt.Fprintf(m.port, "%s\x1a", text); err != nil {
		return fmt.Errorf("cellular: write body: %w", err)
	}
	if err := m.waitFor("OK"); err != nil {
		return fmt.Errorf("cellular: send not confirmed: %w", err)
	}
	return nil
}

// command writes one AT command and waits for OK.
func (m *SerialModem) command(cmd string) error {
	if _, err := fmt.Fprintf(m.port, "%s\r", cmd); err != nil {
		return err
	}
	return m.waitFor("OK")
}

const (
	maxPromptBytes   = 64
	maxPromptRetries = 8
)

// waitForPrompt scans raw bytes for the "> " body prompt. The prompt is
// not newline-terminated, so a line read would sit on it until the read
// timeout and the one-shot alert SMS would stall.
func (m *SerialModem) waitForPrompt() error {
	var window []byte
	retries := 0
	for len(window) < maxPromptBytes {
		b, err := m.reader.ReadByte()
		if err != nil {
			// Inter-character timeout; the modem may still answer.
			retries++
			if retries > maxPromptRetries {
				return fmt.Errorf("read modem response: %w", err)
			}
			continue
		}
		window = append(window, b)
		if b == '>' {
			return nil
		}
		if bytes.Contains(window, []byte("ERROR")) {
			return fmt.Errorf("modem reported ERROR")
		}
	}
	return fmt.Errorf("no prompt in modem response %q", window)
}

// waitFor reads modem output lines until the wanted token, ERROR, or the
// read timeout.
func (m *SerialModem) waitFor(want string) error {
	for i := 0; i < 16; i++ {
		line, err := m.reader.ReadString('\n')
		if strings.Contains(line, want) {
			return nil
		}
		if strings.Contains(line, "ERROR") {
			return fmt.Errorf("modem reported ERROR")
		}
		if err != nil {
			return fmt.Errorf("read modem response: %w", err)
		}
	}
	return fmt.Errorf("no %q in modem response", want)
}

// Close releases the serial port.
func (m *SerialModem) Close() error {
	return m.port.Close()
}
