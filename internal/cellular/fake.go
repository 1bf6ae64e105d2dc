package cellular

// SentSMS is one recorded message.
type SentSMS struct {
	Destination string
	Text        string
}

// FakeSender records sent messages for tests.
type FakeSender struct {
	Sent      []SentSMS
	SendError error
	Closed    bool
}

// SendSMS records the message, or fails if SendError is set.
func (f *FakeSender) SendSMS(destination, text string) error {
	if f.SendError != nil {
		return f.SendError
	}
	f.Sent = append(f.Sent, SentSMS{Destination: destination, Text: text})
	return nil
}

// Close marks the sender as closed.
func (f *FakeSender) Close() error {
	f.Closed = true
	return nil
}
