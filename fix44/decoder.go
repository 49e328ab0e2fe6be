package fix44

import (
	"bytes"

	fix "github.com/aldas/go-fix-client"
)

// DefaultMaxMessageSize is maximum byte count a single message may span when
// Config.MaxMessageSize is not set
const DefaultMaxMessageSize = 1024 * 1024

// Config is configuration for Decoder
type Config struct {
	// SkipChecksumVerify disables verification of CheckSum (10) and of declared
	// vs measured BodyLength (9). The two are linked integrity signals and are
	// verified together.
	SkipChecksumVerify bool
	// SkipValidation disables dictionary validation (known MsgType and
	// required-field presence)
	SkipValidation bool
	// ValidateFieldValues additionally checks every field value against its
	// dictionary type class. Unknown tags always pass as FIX permits user
	// defined fields. Off by default.
	ValidateFieldValues bool
	// MaxMessageSize caps how far the decoder searches for the end of a single
	// message. Defaults to DefaultMaxMessageSize.
	MaxMessageSize int
}

// Decoder decodes FIX 4.4 messages out of a contiguous byte region. Decoded
// messages reference the given region without copying.
//
// Note: is not go-routine safe. Decoder reuses scratch state between calls,
// instantiate one Decoder per goroutine for concurrent decoding.
type Decoder struct {
	config     Config
	dictionary *Dictionary

	scratch fix.Fields
}

// NewDecoder creates new instance of FIX 4.4 decoder with default configuration
func NewDecoder(dictionary *Dictionary) *Decoder {
	return NewDecoderWithConfig(dictionary, Config{})
}

// NewDecoderWithConfig creates new instance of FIX 4.4 decoder with given config
func NewDecoderWithConfig(dictionary *Dictionary, config Config) *Decoder {
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if dictionary == nil {
		dictionary = NewDictionary()
	}
	return &Decoder{
		config:     config,
		dictionary: dictionary,
		scratch:    make(fix.Fields, 0, 32),
	}
}

// trailer is `<SOH>10=`. The leading delimiter anchors the match to a field
// boundary so a tag like 110 inside the body can not be mistaken for the
// checksum field.
var trailer = []byte{fix.SOH, '1', '0', '='}

// trailerTailLength is three checksum value bytes plus the final delimiter
const trailerTailLength = 4

// DecodeOne decodes exactly one message starting at *cursor within data. On
// success cursor is advanced to the byte after the decoded message. On any
// failure cursor keeps its entry value and no message is returned.
func (d *Decoder) DecodeOne(data []byte, cursor *int) (fix.Message, error) {
	start := *cursor
	if start < 0 || len(data)-start < fix.MinMessageLength {
		return fix.Message{}, &DecodeError{Err: ErrTruncated}
	}

	end, err := d.findMessageEnd(data, start)
	if err != nil {
		return fix.Message{}, err
	}

	msg, err := d.scanMessage(data[start:end])
	if err != nil {
		return fix.Message{}, err
	}

	*cursor = end
	return msg, nil
}

// findMessageEnd locates the byte after the current message, that is the byte
// after the delimiter terminating the checksum field. The checksum value is
// identified by position only, its three bytes can hold anything.
func (d *Decoder) findMessageEnd(data []byte, start int) (int, error) {
	window := data[start:]
	limited := false
	if len(window) > d.config.MaxMessageSize {
		window = window[:d.config.MaxMessageSize]
		limited = true
	}

	searchFrom := 0
	for {
		idx := bytes.Index(window[searchFrom:], trailer)
		if idx == -1 {
			break
		}
		idx += searchFrom

		end := idx + len(trailer) + trailerTailLength
		if end > len(window) {
			if limited {
				// trailer starts inside the window but the message would
				// extend past the size cap
				return 0, &DecodeError{Err: ErrMessageTooLarge, Offset: idx}
			}
			break
		}
		if window[end-1] == fix.SOH {
			return start + end, nil
		}
		searchFrom = idx + 1
	}

	if limited {
		return 0, &DecodeError{Err: ErrMessageTooLarge}
	}
	return 0, &DecodeError{Err: ErrTruncated}
}

// scanMessage scans `tag=value` fields left to right over a single framed
// message region and verifies framing, integrity and dictionary rules.
func (d *Decoder) scanMessage(raw []byte) (fix.Message, error) {
	d.scratch = d.scratch[:0]

	msg := fix.Message{Raw: raw}
	bodyStart := 0
	checksumStart := 0

	pos := 0
	for pos < len(raw) {
		fieldStart := pos
		sohIdx := bytes.IndexByte(raw[pos:], fix.SOH)
		if sohIdx == -1 {
			return fix.Message{}, &DecodeError{Err: ErrMalformedField, Offset: fieldStart}
		}
		eqIdx := bytes.IndexByte(raw[pos:pos+sohIdx], '=')
		if eqIdx == -1 {
			return fix.Message{}, &DecodeError{Err: ErrMalformedField, Offset: fieldStart}
		}

		tag, ok := parseTag(raw[pos : pos+eqIdx])
		if !ok {
			return fix.Message{}, &DecodeError{Err: ErrInvalidTag, Offset: fieldStart}
		}

		valueOffset := pos + eqIdx + 1
		field := fix.NewField(tag, raw, valueOffset, pos+sohIdx-valueOffset)
		fieldIndex := len(d.scratch)
		d.scratch = append(d.scratch, field)
		pos += sohIdx + 1

		switch fieldIndex {
		case 0:
			if tag != fix.TagBeginString || !bytes.Equal(field.Bytes(), []byte(fix.BeginStringFIX44)) {
				return fix.Message{}, &DecodeError{Err: ErrBadBeginString, Offset: fieldStart, Tag: tag}
			}
			continue
		case 1:
			if tag != fix.TagBodyLength {
				return fix.Message{}, &DecodeError{Err: ErrMissingBodyLength, Offset: fieldStart, Tag: tag}
			}
			length, err := field.AsInt()
			if err != nil || length < 0 {
				return fix.Message{}, &DecodeError{Err: ErrBadBodyLength, Offset: fieldStart, Tag: tag}
			}
			msg.BodyLength = int(length)
			bodyStart = pos
			continue
		}

		switch tag {
		case fix.TagMsgType:
			msg.MsgType = string(field.Bytes())
		case fix.TagCheckSum:
			checksumStart = fieldStart
		}
	}

	if len(d.scratch) == 0 || d.scratch[len(d.scratch)-1].Tag != fix.TagCheckSum {
		return fix.Message{}, &DecodeError{Err: ErrMissingChecksum, Offset: len(raw)}
	}
	declared, declaredOK := parseChecksum(d.scratch[len(d.scratch)-1].Bytes())
	msg.CheckSum = declared

	if !d.config.SkipChecksumVerify {
		if measured := checksumStart - bodyStart; measured != msg.BodyLength {
			return fix.Message{}, &DecodeError{Err: ErrBadBodyLength, Offset: bodyStart, Tag: fix.TagBodyLength}
		}
		if !declaredOK || int(fix.Checksum(raw[:checksumStart])) != declared {
			return fix.Message{}, &DecodeError{Err: ErrBadChecksum, Offset: checksumStart, Tag: fix.TagCheckSum}
		}
	}

	if !d.config.SkipValidation {
		if !d.dictionary.IsValidMsgType(msg.MsgType) {
			return fix.Message{}, &DecodeError{Err: ErrUnknownMsgType, Tag: fix.TagMsgType}
		}
		for _, required := range d.dictionary.RequiredFields(msg.MsgType) {
			if _, ok := d.scratch.FindByTag(required); !ok {
				return fix.Message{}, &DecodeError{Err: ErrMissingRequiredField, Tag: required}
			}
		}
	}
	if d.config.ValidateFieldValues {
		for _, f := range d.scratch {
			if !d.dictionary.ValidateValue(f.Tag, f.Bytes()) {
				return fix.Message{}, &DecodeError{Err: ErrInvalidFieldValue, Tag: f.Tag}
			}
		}
	}

	// scratch is reused on the next call, the message gets its own field slice
	fields := make(fix.Fields, len(d.scratch))
	copy(fields, d.scratch)
	msg.Fields = fields

	return msg, nil
}

// DecodeAll returns scanner that lazily decodes successive messages from data.
// Scanning stops at the first failing message or when fewer than
// fix.MinMessageLength bytes remain. The scanner is not restartable.
func (d *Decoder) DecodeAll(data []byte) *MessageScanner {
	return &MessageScanner{decoder: d, data: data}
}

// MessageScanner iterates messages of a byte region in strict byte order
type MessageScanner struct {
	decoder *Decoder
	data    []byte

	cursor  int
	message fix.Message
	err     error
	done    bool
}

// Scan advances to the next message. It returns false when the region is
// exhausted or a message failed to decode, in which case Err tells the two
// cases apart.
func (s *MessageScanner) Scan() bool {
	if s.done {
		return false
	}
	if len(s.data)-s.cursor < fix.MinMessageLength {
		s.done = true
		return false
	}
	msg, err := s.decoder.DecodeOne(s.data, &s.cursor)
	if err != nil {
		s.err = err
		s.done = true
		return false
	}
	s.message = msg
	return true
}

// Message returns the message decoded by the last successful Scan
func (s *MessageScanner) Message() fix.Message {
	return s.message
}

// Err returns the error that stopped scanning, nil when the region was
// simply exhausted
func (s *MessageScanner) Err() error {
	return s.err
}

// Cursor returns current byte offset within the region. After a failed Scan it
// is the offset of the failing message so the caller can inspect or skip past
// it to resynchronize.
func (s *MessageScanner) Cursor() int {
	return s.cursor
}

// parseTag parses tag bytes as unsigned decimal integer
func parseTag(raw []byte) (fix.Tag, bool) {
	if len(raw) == 0 || len(raw) > 9 {
		return 0, false
	}
	var tag uint32
	for _, b := range raw {
		if b < '0' || b > '9' {
			return 0, false
		}
		tag = tag*10 + uint32(b-'0')
	}
	if tag == 0 {
		return 0, false
	}
	return fix.Tag(tag), true
}

// parseChecksum parses the declared checksum value, exactly three ASCII digits
func parseChecksum(raw []byte) (int, bool) {
	if len(raw) != 3 {
		return 0, false
	}
	value := 0
	for _, b := range raw {
		if b < '0' || b > '9' {
			return 0, false
		}
		value = value*10 + int(b-'0')
	}
	return value, value <= 255
}
