package at

import "strings"

// Class is the routing decision for one framed line.
type Class int

const (
	// ClassResponse belongs to the command in flight.
	ClassResponse Class = iota
	// ClassBlockStart opens an inbound message block.
	ClassBlockStart
	// ClassBlockLine is interior block data.
	ClassBlockLine
	// ClassBlockEnd closes the block.
	ClassBlockEnd
	// ClassNotification is a stand-alone unsolicited result code.
	ClassNotification
	// ClassSuppressed is dropped. Only prompts seen inside a block.
	ClassSuppressed
)

func (c Class) String() string {
	switch c {
	case ClassResponse:
		return "response"
	case ClassBlockStart:
		return "block-start"
	case ClassBlockLine:
		return "block-line"
	case ClassBlockEnd:
		return "block-end"
	case ClassNotification:
		return "notification"
	case ClassSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// Unsolicited reports whether lines of this class go to the URC dispatcher.
func (c Class) Unsolicited() bool {
	switch c {
	case ClassBlockStart, ClassBlockLine, ClassBlockEnd, ClassNotification:
		return true
	}
	return false
}

// Event is a classified unsolicited line handed to the dispatcher.
type Event struct {
	Class Class
	Line  string
}

// Classifier decides where each framed line goes. It keeps track of whether
// the stream is currently inside an inbound message block, since every line
// of a block is unsolicited regardless of its content.
//
// A Classifier is not safe for concurrent use; the modem read loop owns it.
type Classifier struct {
	markers Markers
	inBlock bool
}

func NewClassifier(markers Markers) *Classifier {
	return &Classifier{markers: markers}
}

// Classify returns the class of line and advances the block state.
//
// Notifications take precedence over command replies so that an
// unsolicited code is never appended to a pending response.
func (c *Classifier) Classify(line string) Class {
	switch {
	case c.markers.BlockStart != "" && strings.HasPrefix(line, c.markers.BlockStart):
		c.inBlock = true
		return ClassBlockStart
	case c.markers.BlockEnd != "" && strings.HasPrefix(line, c.markers.BlockEnd):
		c.inBlock = false
		return ClassBlockEnd
	case c.inBlock && line == Prompt:
		return ClassSuppressed
	case c.inBlock:
		return ClassBlockLine
	case c.markers.IsNotification(line):
		return ClassNotification
	default:
		return ClassResponse
	}
}

// Reset forgets an open block.
func (c *Classifier) Reset() {
	c.inBlock = false
}

// InBlock reports whether the last classified line left a block open.
func (c *Classifier) InBlock() bool {
	return c.inBlock
}
