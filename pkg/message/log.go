package message

// Log is an append-only ordered record of messages. The zero value is an
// empty log ready for use. Log is not safe for concurrent use; callers
// serialize access.
type Log struct {
	msgs []Message
}

// Append records a message at the end of the log.
func (l *Log) Append(m Message) {
	l.msgs = append(l.msgs, m)
}

// Len returns the number of recorded messages.
func (l *Log) Len() int {
	return len(l.msgs)
}

// Messages returns a copy of the recorded messages in insertion order.
func (l *Log) Messages() []Message {
	if len(l.msgs) == 0 {
		return nil
	}
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Last returns the most recently appended message.
func (l *Log) Last() (Message, bool) {
	if len(l.msgs) == 0 {
		return Message{}, false
	}
	return l.msgs[len(l.msgs)-1], true
}

// DropFront removes the n oldest messages. Dropping more than Len empties
// the log.
func (l *Log) DropFront(n int) {
	if n <= 0 {
		return
	}
	if n >= len(l.msgs) {
		l.Reset()
		return
	}
	// Copy so the dropped prefix does not pin the backing array.
	rest := make([]Message, len(l.msgs)-n)
	copy(rest, l.msgs[n:])
	l.msgs = rest
}

// Render renders the log with Render.
func (l *Log) Render() string {
	return Render(l.msgs)
}

// Reset empties the log, returning it to its zero state.
func (l *Log) Reset() {
	l.msgs = nil
}
