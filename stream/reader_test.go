package stream

import (
	"context"
	"io"
	"testing"

	fix "github.com/aldas/go-fix-client"
	"github.com/aldas/go-fix-client/fix44"
	test_test "github.com/aldas/go-fix-client/test"
	"github.com/stretchr/testify/assert"
)

var (
	rawHeartbeat1  = []byte("8=FIX.4.4\x019=55\x0135=0\x0149=CLIENT\x0156=SERVER\x0134=1\x0152=20231201-10:30:00.000\x0110=075\x01")
	rawHeartbeat2  = []byte("8=FIX.4.4\x019=55\x0135=0\x0149=CLIENT\x0156=SERVER\x0134=2\x0152=20231201-10:30:00.000\x0110=076\x01")
	rawBadChecksum = []byte("8=FIX.4.4\x019=55\x0135=0\x0149=CLIENT\x0156=SERVER\x0134=1\x0152=20231201-10:30:00.000\x0110=999\x01")
)

func TestReader_ReadMessage(t *testing.T) {
	var testCases = []struct {
		name           string
		reads          []test_test.ReadResult
		expectMsgType  string
		expectSeqNum   int64
		expectBuffered int
		expectError    string
	}{
		{
			name: "ok, single read",
			reads: []test_test.ReadResult{
				{Read: rawHeartbeat1},
			},
			expectMsgType:  "0",
			expectSeqNum:   1,
			expectBuffered: 0,
		},
		{
			name: "ok, multiple reads to assemble message",
			reads: []test_test.ReadResult{
				{Read: rawHeartbeat1[0:30]},
				{Read: rawHeartbeat1[30:]},
			},
			expectMsgType:  "0",
			expectSeqNum:   1,
			expectBuffered: 0,
		},
		{
			name: "ok, second message stays in buffer",
			reads: []test_test.ReadResult{
				{Read: append(append([]byte{}, rawHeartbeat1...), rawHeartbeat2[0:10]...)},
			},
			expectMsgType:  "0",
			expectSeqNum:   1,
			expectBuffered: 10,
		},
		{
			name: "nok, decode failure is returned and bytes stay buffered",
			reads: []test_test.ReadResult{
				{Read: rawBadChecksum},
			},
			expectBuffered: len(rawBadChecksum),
			expectError:    "declared CheckSum disagrees with computed checksum, tag: 10, offset: 70",
		},
		{
			name: "nok, read error is returned",
			reads: []test_test.ReadResult{
				{Read: rawHeartbeat1[0:30]},
				{Err: io.ErrUnexpectedEOF},
			},
			expectError: io.ErrUnexpectedEOF.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			device := &test_test.MockReaderWriter{Reads: tc.reads}
			reader := NewReader(device, fix44.NewDictionary())

			msg, err := reader.ReadMessage(context.Background())

			if tc.expectError != "" {
				assert.EqualError(t, err, tc.expectError)
				if tc.expectBuffered > 0 {
					assert.Equal(t, tc.expectBuffered, reader.Buffered())
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectMsgType, msg.MsgType)

			seqNum, err := msg.GetInt(fix.TagMsgSeqNum)
			assert.NoError(t, err)
			assert.Equal(t, tc.expectSeqNum, seqNum)
			assert.Equal(t, tc.expectBuffered, reader.Buffered())
		})
	}
}

func TestReader_ReadMessage_consecutiveMessages(t *testing.T) {
	device := &test_test.MockReaderWriter{
		Reads: []test_test.ReadResult{
			{Read: append(append([]byte{}, rawHeartbeat1...), rawHeartbeat2...)},
		},
	}
	reader := NewReader(device, fix44.NewDictionary())

	first, err := reader.ReadMessage(context.Background())
	assert.NoError(t, err)
	firstSeq, _ := first.GetInt(fix.TagMsgSeqNum)
	assert.Equal(t, int64(1), firstSeq)

	// second message is already buffered, no device read happens
	second, err := reader.ReadMessage(context.Background())
	assert.NoError(t, err)
	secondSeq, _ := second.GetInt(fix.TagMsgSeqNum)
	assert.Equal(t, int64(2), secondSeq)
	assert.Equal(t, 0, reader.Buffered())

	// earlier message stays valid after the buffer was reused
	firstSeqAgain, _ := first.GetInt(fix.TagMsgSeqNum)
	assert.Equal(t, int64(1), firstSeqAgain)
}

func TestReader_ReadMessage_contextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewReader(&test_test.MockReaderWriter{}, fix44.NewDictionary())

	_, err := reader.ReadMessage(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReader_Skip(t *testing.T) {
	device := &test_test.MockReaderWriter{
		Reads: []test_test.ReadResult{
			// one junk byte prepended to a valid message
			{Read: append([]byte{'x'}, rawHeartbeat1...)},
		},
	}
	reader := NewReader(device, fix44.NewDictionary())

	_, err := reader.ReadMessage(context.Background())
	assert.Error(t, err)

	reader.Skip(1)

	msg, err := reader.ReadMessage(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "0", msg.MsgType)
}

func TestReader_Close(t *testing.T) {
	reader := NewReader(&test_test.MockReaderWriter{}, fix44.NewDictionary())
	assert.EqualError(t, reader.Close(), "device does not implement Closer interface")
}
