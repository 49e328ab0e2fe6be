package stream

import (
	"errors"
	"io"

	"github.com/aldas/go-fix-client/fix44"
)

// Writer encodes outgoing FIX 4.4 messages onto a byte stream. Messages with
// MsgSeqNum left at zero are stamped from an internal counter, messages with
// an explicit MsgSeqNum reset the counter to that value.
//
// Note: is not go-routine safe
type Writer struct {
	device  io.Writer
	encoder *fix44.Encoder

	seqNum uint64
}

// NewWriter creates new instance of FIX message stream writer
func NewWriter(device io.Writer, dictionary *fix44.Dictionary) *Writer {
	return &Writer{
		device:  device,
		encoder: fix44.NewEncoder(dictionary),
	}
}

// WriteMessage encodes given message and writes it to the stream
func (w *Writer) WriteMessage(msg fix44.Outgoing) error {
	if msg.MsgSeqNum == 0 {
		w.seqNum++
		msg.MsgSeqNum = w.seqNum
	} else {
		w.seqNum = msg.MsgSeqNum
	}
	raw, err := w.encoder.Encode(msg)
	if err != nil {
		return err
	}
	_, err = w.device.Write(raw)
	return err
}

func (w *Writer) Close() error {
	if c, ok := w.device.(io.Closer); ok {
		return c.Close()
	}
	return errors.New("device does not implement Closer interface")
}
