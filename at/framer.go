package at

// Framer segments the raw modem byte stream into lines.
//
// Carriage returns are discarded and a line feed completes the current
// line. The prompt character is special: a modem waiting for payload data
// prints ">" without a line ending, so any pending text is flushed as a line
// and ">" follows as a line of its own.
//
// Lines longer than capacity-1 bytes are cut at that length and the
// remainder starts a new line. Empty lines are never emitted.
//
// The output depends only on the byte sequence, never on how it was split
// across Feed calls. A Framer is not safe for concurrent use.
type Framer struct {
	buf      []byte
	capacity int
}

// NewFramer returns a Framer bounded to capacity bytes per line. A
// capacity below 2 selects DefaultLineCapacity.
func NewFramer(capacity int) *Framer {
	if capacity < 2 {
		capacity = DefaultLineCapacity
	}
	return &Framer{
		buf:      make([]byte, 0, 128),
		capacity: capacity,
	}
}

// Feed consumes p and returns the lines it completed, in arrival order.
func (f *Framer) Feed(p []byte) []string {
	var lines []string
	for _, c := range p {
		switch c {
		case '\r':
			continue
		case '>':
			lines = f.flush(lines)
			lines = append(lines, Prompt)
			continue
		case '\n':
			lines = f.flush(lines)
			continue
		}
		f.buf = append(f.buf, c)
		if len(f.buf) >= f.capacity-1 {
			lines = f.flush(lines)
		}
	}
	return lines
}

// Pending returns the number of buffered bytes not yet part of a line.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// Reset discards any partially accumulated line.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
}

func (f *Framer) flush(lines []string) []string {
	if len(f.buf) == 0 {
		return lines
	}
	lines = append(lines, string(f.buf))
	f.buf = f.buf[:0]
	return lines
}
