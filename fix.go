package fix

import (
	"errors"
	"time"
)

// FIX tag-value wire format:
//
//	8=FIX.4.4<SOH>9=<length><SOH>35=<type><SOH>...<SOH>10=<ccc><SOH>
//
// Every field is `tag=value` terminated by a single SOH (0x01) byte. BodyLength
// (tag 9) counts bytes from the byte after its own delimiter up to but not
// including the `10=` sequence. CheckSum (tag 10) is the sum of every preceding
// byte, delimiters included, modulo 256, emitted as three zero padded ASCII
// digits.

const (
	// SOH is the field delimiter byte separating `tag=value` pairs on the wire
	SOH = 0x01
	// BeginStringFIX44 is the only BeginString (tag 8) value this library speaks
	BeginStringFIX44 = "FIX.4.4"
	// MinMessageLength is the smallest byte count that can frame a FIX message.
	// Fewer available bytes than this can not contain the mandatory
	// header/trailer fields.
	MinMessageLength = 20
)

// Tag identifies single FIX field (tag number)
type Tag uint32

// Shared header/trailer tags. These are required for every FIX 4.4 message
// type and are emitted/parsed in fixed positions.
const (
	TagBeginString  Tag = 8
	TagBodyLength   Tag = 9
	TagCheckSum     Tag = 10
	TagMsgSeqNum    Tag = 34
	TagMsgType      Tag = 35
	TagSenderCompID Tag = 49
	TagSendingTime  Tag = 52
	TagTargetCompID Tag = 56
)

// Checksum sums given bytes as unsigned 8bit values modulo 256. For a complete
// message the input is every byte from the start of the message up to (but not
// including) the `1` of the `10=` checksum field.
func Checksum(data []byte) uint8 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return uint8(sum % 256)
}

const (
	// TimestampLayoutMillis is UTCTIMESTAMP layout with millisecond part (tags 52, 60)
	TimestampLayoutMillis = "20060102-15:04:05.000"
	// TimestampLayoutSeconds is UTCTIMESTAMP layout without millisecond part
	TimestampLayoutSeconds = "20060102-15:04:05"
)

// ErrValueInvalidTimestamp indicates that value is not in UTCTIMESTAMP format
// `YYYYMMDD-HH:MM:SS` or `YYYYMMDD-HH:MM:SS.sss`
var ErrValueInvalidTimestamp = errors.New("field value is not a valid UTC timestamp")

// FormatTimestamp formats given time as FIX UTCTIMESTAMP with millisecond part
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayoutMillis)
}

// ParseTimestamp parses FIX UTCTIMESTAMP value with or without millisecond part
func ParseTimestamp(value string) (time.Time, error) {
	switch len(value) {
	case len(TimestampLayoutMillis):
		t, err := time.Parse(TimestampLayoutMillis, value)
		if err != nil {
			return time.Time{}, ErrValueInvalidTimestamp
		}
		return t, nil
	case len(TimestampLayoutSeconds):
		t, err := time.Parse(TimestampLayoutSeconds, value)
		if err != nil {
			return time.Time{}, ErrValueInvalidTimestamp
		}
		return t, nil
	}
	return time.Time{}, ErrValueInvalidTimestamp
}
