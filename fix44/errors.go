package fix44

import (
	"errors"
	"fmt"

	fix "github.com/aldas/go-fix-client"
)

var (
	// ErrTruncated indicates that the byte region does not contain enough bytes
	// for a full message (no checksum trailer found before the region ends)
	ErrTruncated = errors.New("not enough bytes to contain a full message")
	// ErrMessageTooLarge indicates that the candidate message end exceeds the
	// configured maximum message size
	ErrMessageTooLarge = errors.New("message end exceeds maximum message size")
	// ErrBadBeginString indicates that the first field is not tag 8 with value FIX.4.4
	ErrBadBeginString = errors.New("message does not begin with 8=FIX.4.4")
	// ErrMissingBodyLength indicates that the second field is not tag 9
	ErrMissingBodyLength = errors.New("second field is not BodyLength (9)")
	// ErrMissingChecksum indicates that the last field is not tag 10
	ErrMissingChecksum = errors.New("last field is not CheckSum (10)")
	// ErrBadBodyLength indicates that declared BodyLength disagrees with measured body length
	ErrBadBodyLength = errors.New("declared BodyLength disagrees with measured length")
	// ErrBadChecksum indicates that declared CheckSum is malformed or disagrees with computed sum
	ErrBadChecksum = errors.New("declared CheckSum disagrees with computed checksum")
	// ErrMalformedField indicates a field without `=` separator or without SOH delimiter
	ErrMalformedField = errors.New("field is missing separator or delimiter")
	// ErrInvalidTag indicates that tag bytes do not parse as a decimal integer
	ErrInvalidTag = errors.New("tag is not a decimal integer")
	// ErrUnknownMsgType indicates that tag 35 value is not a known FIX 4.4 message type
	ErrUnknownMsgType = errors.New("unknown message type")
	// ErrMissingRequiredField indicates that a tag required for the message type is absent
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidFieldValue indicates that a field value does not match its dictionary type class
	ErrInvalidFieldValue = errors.New("field value does not match its type")
)

var (
	// ErrMissingMsgType indicates that outgoing message has no MsgType set
	ErrMissingMsgType = errors.New("outgoing message is missing MsgType")
	// ErrReservedBodyTag indicates that outgoing message body contains a
	// reserved header/trailer tag (8, 9, 35, 49, 56, 34, 52, 10)
	ErrReservedBodyTag = errors.New("body contains reserved header tag")
	// ErrBufferTooSmall indicates that caller provided buffer can not hold the encoded message
	ErrBufferTooSmall = errors.New("buffer is too small for encoded message")
)

// DecodeError describes why decoding failed and where. Err is always one of
// the sentinel errors above so `errors.Is` works on the wrapped error.
type DecodeError struct {
	Err error
	// Offset is byte offset from the start of the current message
	Offset int
	// Tag is the offending tag number, 0 when not meaningful for the failure
	Tag fix.Tag
}

func (e *DecodeError) Error() string {
	if e.Tag != 0 {
		return fmt.Sprintf("%v, tag: %v, offset: %v", e.Err, e.Tag, e.Offset)
	}
	return fmt.Sprintf("%v, offset: %v", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
