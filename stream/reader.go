// Package stream frames FIX 4.4 messages out of byte streams (sockets, serial
// ports, capture files) and writes outgoing messages back.
package stream

import (
	"context"
	"errors"
	"io"

	fix "github.com/aldas/go-fix-client"
	"github.com/aldas/go-fix-client/fix44"
)

// ErrReadBufferFull indicates that the read buffer filled up without
// containing a complete message
var ErrReadBufferFull = errors.New("read buffer is full without a complete message")

// Config is configuration for Reader
type Config struct {
	// DecoderConfig is passed to the underlying fix44 decoder
	DecoderConfig fix44.Config
	// ReadBufferSize is size of the internal read buffer. Defaults to the
	// decoder maximum message size plus room for the start of a next message.
	ReadBufferSize int
}

// Reader reads FIX 4.4 messages from a byte stream. Bytes are accumulated in
// an internal buffer until a complete message can be framed, each decoded
// message is copied out of the buffer so its field views stay valid after the
// buffer is reused.
//
// Note: is not go-routine safe
type Reader struct {
	device  io.Reader
	decoder *fix44.Decoder

	readBuffer []byte
	readIndex  int
}

// NewReader creates new instance of FIX message stream reader
func NewReader(device io.Reader, dictionary *fix44.Dictionary) *Reader {
	return NewReaderWithConfig(device, dictionary, Config{})
}

// NewReaderWithConfig creates new instance of FIX message stream reader with given config
func NewReaderWithConfig(device io.Reader, dictionary *fix44.Dictionary, config Config) *Reader {
	if config.DecoderConfig.MaxMessageSize <= 0 {
		config.DecoderConfig.MaxMessageSize = fix44.DefaultMaxMessageSize
	}
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = config.DecoderConfig.MaxMessageSize + 4096
	}
	return &Reader{
		device:     device,
		decoder:    fix44.NewDecoderWithConfig(dictionary, config.DecoderConfig),
		readBuffer: make([]byte, config.ReadBufferSize),
	}
}

func (r *Reader) Initialize() error {
	return nil
}

func (r *Reader) Close() error {
	if c, ok := r.device.(io.Closer); ok {
		return c.Close()
	}
	return errors.New("device does not implement Closer interface")
}

// ReadMessage reads from the stream until one complete FIX message can be
// decoded and returns it. A decode failure other than the message being still
// incomplete is returned to the caller with the offending bytes left in the
// buffer, use Skip to discard bytes and resynchronize.
func (r *Reader) ReadMessage(ctx context.Context) (fix.Message, error) {
	for {
		select {
		case <-ctx.Done():
			return fix.Message{}, ctx.Err()
		default:
		}

		if r.readIndex >= fix.MinMessageLength {
			cursor := 0
			_, err := r.decoder.DecodeOne(r.readBuffer[:r.readIndex], &cursor)
			if err == nil {
				return r.consumeMessage(cursor)
			}
			if !errors.Is(err, fix44.ErrTruncated) {
				return fix.Message{}, err
			}
		}

		if r.readIndex == len(r.readBuffer) {
			return fix.Message{}, ErrReadBufferFull
		}
		n, err := r.device.Read(r.readBuffer[r.readIndex:])
		if err != nil {
			return fix.Message{}, err
		}
		r.readIndex += n
	}
}

// consumeMessage copies the first n buffered bytes into an owned region,
// decodes the message against that region and compacts the buffer
func (r *Reader) consumeMessage(n int) (fix.Message, error) {
	raw := make([]byte, n)
	copy(raw, r.readBuffer[:n])

	copy(r.readBuffer, r.readBuffer[n:r.readIndex])
	r.readIndex -= n

	cursor := 0
	return r.decoder.DecodeOne(raw, &cursor)
}

// Skip discards up to n buffered bytes. Callers use it to resynchronize after
// ReadMessage returned a decode failure.
func (r *Reader) Skip(n int) {
	if n > r.readIndex {
		n = r.readIndex
	}
	copy(r.readBuffer, r.readBuffer[n:r.readIndex])
	r.readIndex -= n
}

// Buffered returns number of bytes currently held in the read buffer
func (r *Reader) Buffered() int {
	return r.readIndex
}
