package cellular

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// fakePort scripts modem responses: each write makes the next canned
// reply readable, the way a modem answers command by command.
type fakePort struct {
	replies []string
	reads   bytes.Buffer
	writes  bytes.Buffer
	closed  bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.writes.Write(b)
	if len(p.replies) > 0 {
		p.reads.WriteString(p.replies[0])
		p.replies = p.replies[1:]
	}
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.reads.Len() == 0 {
		return 0, io.EOF
	}
	return p.reads.Read(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

// The CMGS body prompt arrives as "\r\n> " with no trailing newline; the
// driver must spot it in raw bytes instead of waiting for a line that
// never completes.
func TestSendSMSHandlesUnterminatedPrompt(t *testing.T) {
	port := &fakePort{replies: []string{
		"\r\n> ",
		"\r\n+CMGS: 12\r\nOK\r\n",
	}}
	m := newModem(port)

	if err := m.SendSMS("+15550100", "Crash detected."); err != nil {
		t.Fatalf("SendSMS: %v", err)
	}
	sent := port.writes.String()
	if !strings.Contains(sent, "AT+CMGS=\"+15550100\"\r") {
		t.Errorf("CMGS header missing from %q", sent)
	}
	if !strings.Contains(sent, "Crash detected.\x1a") {
		t.Errorf("body with Ctrl+Z terminator missing from %q", sent)
	}
}

func TestSendSMSSurfacesPromptError(t *testing.T) {
	port := &fakePort{replies: []string{"\r\nERROR\r\n"}}
	m := newModem(port)
	if err := m.SendSMS("+15550100", "x"); err == nil {
		t.Fatal("expected an error when the modem rejects CMGS")
	}
	if strings.Contains(port.writes.String(), "\x1a") {
		t.Error("body must not be written after a rejected CMGS")
	}
}

func TestSendSMSFailsWhenModemSilent(t *testing.T) {
	m := newModem(&fakePort{})
	if err := m.SendSMS("+15550100", "x"); err == nil {
		t.Fatal("expected an error when the modem never answers")
	}
}
