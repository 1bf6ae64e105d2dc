package rf

// FakeSender records transmitted frames for tests.
type FakeSender struct {
	Sent      [][]byte
	SendError error
	Closed    bool
}

// Send records the payload, or fails if SendError is set.
func (f *FakeSender) Send(payload []byte) error {
	if f.SendError != nil {
		return f.SendError
	}
	f.Sent = append(f.Sent, append([]byte(nil), payload...))
	return nil
}

// Close marks the sender as closed.
func (f *FakeSender) Close() error {
	f.Closed = true
	return nil
}
