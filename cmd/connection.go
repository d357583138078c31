// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Emberworks

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"
)

// Connection provides a common interface for reading/writing cooker
// wire bytes from serial or a WebSocket serial bridge.
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// SerialConnection wraps a serial port
type SerialConnection struct {
	port serial.Port
}

func (s *SerialConnection) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *SerialConnection) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *SerialConnection) Close() error {
	return s.port.Close()
}

// ErrConnectionClosed is returned when reading from a closed bridge connection
var ErrConnectionClosed = fmt.Errorf("bridge connection closed")

// BridgeConnection wraps a WebSocket serial bridge for byte-level
// reading. The cooker protocol is plain ASCII, so both text and binary
// frames are accepted.
type BridgeConnection struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool
}

func (w *BridgeConnection) Read(p []byte) (int, error) {
	if w.closed {
		return 0, ErrConnectionClosed
	}

	// Drain buffered frame data first
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return 0, err
		}

		if messageType != websocket.BinaryMessage && messageType != websocket.TextMessage {
			continue
		}

		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *BridgeConnection) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *BridgeConnection) Close() error {
	return w.conn.Close()
}

// OpenSerialConnection opens the cooker's serial port
func OpenSerialConnection(portName string, baudRate int) (Connection, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", portName, err)
	}

	return &SerialConnection{port: port}, nil
}

// OpenBridgeConnection opens a WebSocket serial bridge with HTTP Basic auth
func OpenBridgeConnection(bridgeURL, username, password string, skipSSLVerify bool) (Connection, error) {
	u, err := url.Parse(bridgeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, bridgeURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("bridge connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("bridge connection failed: %v", err)
	}

	return &BridgeConnection{conn: conn}, nil
}

// GetPassword retrieves the bridge password from the environment or
// prompts the user
func GetPassword() (string, error) {
	if pw := os.Getenv("COCOTTE_BRIDGE_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// OpenConnection opens either a serial or bridge connection based on flags
func OpenConnection() (Connection, string, error) {
	if bridgeURL != "" {
		password := ""
		if bridgeUsername != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := OpenBridgeConnection(bridgeURL, bridgeUsername, password, bridgeNoSSLVerify)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("Bridge: %s", bridgeURL), nil
	}

	if portName != "" {
		conn, err := OpenSerialConnection(portName, baudRate)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", fmt.Errorf("either --port or --bridge must be specified")
}

// dialerFromConfig builds the gateway's redial function. The password
// is resolved once up front so reconnects never block on a prompt.
func dialerFromConfig(cfg Config) (func() (io.ReadWriteCloser, error), string, error) {
	if cfg.Bridge.URL != "" {
		password := ""
		if cfg.Bridge.Username != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}
		dial := func() (io.ReadWriteCloser, error) {
			return OpenBridgeConnection(cfg.Bridge.URL, cfg.Bridge.Username, password, bridgeNoSSLVerify)
		}
		return dial, fmt.Sprintf("Bridge: %s", cfg.Bridge.URL), nil
	}

	if cfg.Serial.Port != "" {
		dial := func() (io.ReadWriteCloser, error) {
			return OpenSerialConnection(cfg.Serial.Port, cfg.Serial.Baud)
		}
		return dial, fmt.Sprintf("Serial: %s @ %d baud", cfg.Serial.Port, cfg.Serial.Baud), nil
	}

	return nil, "", fmt.Errorf("no device configured: set --port or --bridge (or serial.port / bridge.url in config)")
}
