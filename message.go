package fix

import (
	"errors"
	"time"

	"github.com/aldas/go-fix-client/internal/utils"
)

// ErrFieldNotFound indicates that message does not contain requested tag. It is
// distinct from value decode failures (ErrValueInvalidNumber etc) so callers
// can tell an absent field from a present but malformed one.
var ErrFieldNotFound = errors.New("message does not contain field")

// Message is single decoded FIX message. Fields address their value bytes
// inside Raw without copying, so a Message is valid only for as long as the
// backing region it was decoded from is live and unmodified.
//
// Message is read-only after construction and can be shared between goroutines
// under that same lifetime discipline.
type Message struct {
	// Raw is the byte region of this message (from `8=` up to and including
	// the delimiter after the checksum field). Not owned by the Message.
	Raw []byte
	// Fields holds every field in the order it appeared on the wire
	Fields Fields
	// MsgType is value of tag 35
	MsgType string
	// BodyLength is the length declared in tag 9
	BodyLength int
	// CheckSum is the checksum declared in tag 10, 0-255 when checksum
	// verification is on. With verification skipped the three declared digits
	// are kept as is (up to 999), or 0 when they are not three digits.
	CheckSum int
}

// Has reports whether message contains given tag
func (m Message) Has(tag Tag) bool {
	_, ok := m.Fields.FindByTag(tag)
	return ok
}

// Field returns field view for given tag, last occurrence wins
func (m Message) Field(tag Tag) (Field, bool) {
	return m.Fields.FindByTag(tag)
}

// GetString returns value of given tag as text
func (m Message) GetString(tag Tag) (string, error) {
	f, ok := m.Fields.FindByTag(tag)
	if !ok {
		return "", ErrFieldNotFound
	}
	return f.AsString()
}

// GetInt returns value of given tag as base-10 signed integer
func (m Message) GetInt(tag Tag) (int64, error) {
	f, ok := m.Fields.FindByTag(tag)
	if !ok {
		return 0, ErrFieldNotFound
	}
	return f.AsInt()
}

// GetFloat64 returns value of given tag as decimal number
func (m Message) GetFloat64(tag Tag) (float64, error) {
	f, ok := m.Fields.FindByTag(tag)
	if !ok {
		return 0, ErrFieldNotFound
	}
	return f.AsFloat64()
}

// GetTime returns value of given tag as FIX UTCTIMESTAMP
func (m Message) GetTime(tag Tag) (time.Time, error) {
	f, ok := m.Fields.FindByTag(tag)
	if !ok {
		return time.Time{}, ErrFieldNotFound
	}
	return f.AsTime()
}

// String returns wire bytes with SOH delimiters replaced by `|` so the message
// can be printed and logged
func (m Message) String() string {
	return utils.FormatSOH(m.Raw)
}
