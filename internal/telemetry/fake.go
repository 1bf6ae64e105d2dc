package telemetry

// FakePublisher records published payloads for tests.
type FakePublisher struct {
	Statuses     []Status
	Events       []Event
	PublishError error
	Closed       bool
}

// PublishStatus records the snapshot.
func (f *FakePublisher) PublishStatus(s Status) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Statuses = append(f.Statuses, s)
	return nil
}

// PublishEvent records the event.
func (f *FakePublisher) PublishEvent(e Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Events = append(f.Events, e)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}
