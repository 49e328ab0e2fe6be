package fix44

import (
	"fmt"
	"strconv"
	"time"

	fix "github.com/aldas/go-fix-client"
)

// TagValue is single body field of an outgoing message
type TagValue struct {
	Tag   fix.Tag
	Value []byte
}

// StringValue creates body field with text value
func StringValue(tag fix.Tag, value string) TagValue {
	return TagValue{Tag: tag, Value: []byte(value)}
}

// IntValue creates body field with base-10 integer value
func IntValue(tag fix.Tag, value int64) TagValue {
	return TagValue{Tag: tag, Value: strconv.AppendInt(nil, value, 10)}
}

// FloatValue creates body field with decimal value
func FloatValue(tag fix.Tag, value float64) TagValue {
	return TagValue{Tag: tag, Value: strconv.AppendFloat(nil, value, 'f', -1, 64)}
}

// TimeValue creates body field with UTCTIMESTAMP value (tag 60 etc)
func TimeValue(tag fix.Tag, value time.Time) TagValue {
	return TagValue{Tag: tag, Value: []byte(fix.FormatTimestamp(value))}
}

// Outgoing describes single FIX 4.4 message to be encoded. Body fields are
// emitted after the header in the order given, duplicate tags are permitted
// and preserved.
type Outgoing struct {
	// MsgType is tag 35 value, must be set
	MsgType string
	// SenderCompID is tag 49 value
	SenderCompID string
	// TargetCompID is tag 56 value
	TargetCompID string
	// MsgSeqNum is tag 34 value
	MsgSeqNum uint64
	// SendingTime is tag 52 value. Zero value means the encoder fills it from
	// its clock.
	SendingTime time.Time
	// Body fields, excluding the reserved header/trailer tags
	Body []TagValue
}

// Encoder serializes outgoing messages into complete framed FIX 4.4 byte
// sequences with computed BodyLength and CheckSum.
//
// Note: is not go-routine safe. Encoder reuses scratch state between calls,
// instantiate one Encoder per goroutine for concurrent encoding.
type Encoder struct {
	dictionary *Dictionary
	timeNow    func() time.Time

	scratch []byte
}

// NewEncoder creates new instance of FIX 4.4 encoder
func NewEncoder(dictionary *Dictionary) *Encoder {
	if dictionary == nil {
		dictionary = NewDictionary()
	}
	return &Encoder{
		dictionary: dictionary,
		timeNow:    time.Now,
		scratch:    make([]byte, 0, 512),
	}
}

// Encode serializes given message into a freshly allocated byte sequence owned
// by the caller:
//
//	8=FIX.4.4|9=<n>|35=..|49=..|56=..|34=..|52=..|<body..>|10=<ccc>|
func (e *Encoder) Encode(msg Outgoing) ([]byte, error) {
	body, err := e.encodeBody(msg)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+24)
	out = append(out, '8', '=')
	out = append(out, fix.BeginStringFIX44...)
	out = append(out, fix.SOH)
	out = append(out, '9', '=')
	out = strconv.AppendInt(out, int64(len(body)), 10)
	out = append(out, fix.SOH)
	out = append(out, body...)

	sum := fix.Checksum(out)
	out = append(out, '1', '0', '=')
	out = append(out, '0'+sum/100, '0'+(sum/10)%10, '0'+sum%10)
	out = append(out, fix.SOH)
	return out, nil
}

// EncodeTo serializes given message into dst and returns the number of bytes
// written. Fails with ErrBufferTooSmall when dst can not hold the complete
// message.
func (e *Encoder) EncodeTo(dst []byte, msg Outgoing) (int, error) {
	encoded, err := e.Encode(msg)
	if err != nil {
		return 0, err
	}
	if len(dst) < len(encoded) {
		return 0, ErrBufferTooSmall
	}
	return copy(dst, encoded), nil
}

// encodeBody emits fields 35..52 and the body fields into the reusable scratch
// buffer. BodyLength is measured from this buffer before the framing fields
// are emitted.
func (e *Encoder) encodeBody(msg Outgoing) ([]byte, error) {
	if msg.MsgType == "" {
		return nil, ErrMissingMsgType
	}
	for _, tv := range msg.Body {
		if e.dictionary.IsHeaderField(tv.Tag) {
			return nil, fmt.Errorf("tag %d: %w", tv.Tag, ErrReservedBodyTag)
		}
	}

	sendingTime := msg.SendingTime
	if sendingTime.IsZero() {
		sendingTime = e.timeNow()
	}

	b := e.scratch[:0]
	b = appendField(b, fix.TagMsgType, []byte(msg.MsgType))
	b = appendField(b, fix.TagSenderCompID, []byte(msg.SenderCompID))
	b = appendField(b, fix.TagTargetCompID, []byte(msg.TargetCompID))
	b = appendTag(b, fix.TagMsgSeqNum)
	b = strconv.AppendUint(b, msg.MsgSeqNum, 10)
	b = append(b, fix.SOH)
	b = appendField(b, fix.TagSendingTime, []byte(fix.FormatTimestamp(sendingTime)))
	for _, tv := range msg.Body {
		b = appendField(b, tv.Tag, tv.Value)
	}
	e.scratch = b
	return b, nil
}

func appendTag(b []byte, tag fix.Tag) []byte {
	b = strconv.AppendUint(b, uint64(tag), 10)
	return append(b, '=')
}

func appendField(b []byte, tag fix.Tag, value []byte) []byte {
	b = appendTag(b, tag)
	b = append(b, value...)
	return append(b, fix.SOH)
}
