// Package fix44 implements decoding, validating and encoding of FIX 4.4
// tag-value messages against a compiled-in data dictionary.
package fix44

import (
	"strconv"

	fix "github.com/aldas/go-fix-client"
)

// TypeClass classifies FIX field values for dictionary validation
type TypeClass string

const (
	// TypeText - non-empty sequence of bytes. FIX STRING and DATA types fall
	// into this class, value bytes are opaque octets.
	TypeText TypeClass = "TEXT"
	// TypeChar - exactly one byte
	TypeChar TypeClass = "CHAR"
	// TypeInt - base-10 signed integer
	TypeInt TypeClass = "INT"
	// TypeQty - decimal number. FIX QTY, PRICE and AMT types fall into this class.
	TypeQty TypeClass = "QTY"
	// TypeLength - non-negative base-10 integer
	TypeLength TypeClass = "LENGTH"
	// TypeSeqNum - positive base-10 integer
	TypeSeqNum TypeClass = "SEQNUM"
	// TypeUTCTimestamp - `YYYYMMDD-HH:MM:SS` with optional `.sss` millisecond part
	TypeUTCTimestamp TypeClass = "UTCTIMESTAMP"
)

// Valid reports whether value bytes conform to the type class
func (tc TypeClass) Valid(value []byte) bool {
	switch tc {
	case TypeText:
		return len(value) > 0
	case TypeChar:
		return len(value) == 1
	case TypeInt:
		_, err := strconv.ParseInt(string(value), 10, 64)
		return err == nil
	case TypeQty:
		_, err := strconv.ParseFloat(string(value), 64)
		return err == nil
	case TypeLength:
		n, err := strconv.ParseInt(string(value), 10, 64)
		return err == nil && n >= 0
	case TypeSeqNum:
		n, err := strconv.ParseInt(string(value), 10, 64)
		return err == nil && n >= 1
	case TypeUTCTimestamp:
		_, err := fix.ParseTimestamp(string(value))
		return err == nil
	}
	return true
}

// FieldDef describes single FIX 4.4 field
type FieldDef struct {
	Tag  fix.Tag
	Name string
	Type TypeClass
	// Header marks fields of the shared header/trailer that are required for
	// every message type and may not appear in an outgoing message body
	Header bool
}

// FIX 4.4 message types (tag 35 values)
const (
	MsgTypeHeartbeat                = "0"
	MsgTypeTestRequest              = "1"
	MsgTypeResendRequest            = "2"
	MsgTypeReject                   = "3"
	MsgTypeSequenceReset            = "4"
	MsgTypeLogout                   = "5"
	MsgTypeIOI                      = "6"
	MsgTypeAdvertisement            = "7"
	MsgTypeExecutionReport          = "8"
	MsgTypeOrderCancelReject        = "9"
	MsgTypeLogon                    = "A"
	MsgTypeNews                     = "B"
	MsgTypeEmail                    = "C"
	MsgTypeNewOrderSingle           = "D"
	MsgTypeNewOrderList             = "E"
	MsgTypeOrderCancelRequest       = "F"
	MsgTypeOrderCancelReplace       = "G"
	MsgTypeOrderStatusRequest       = "H"
	MsgTypeListStrikePrice          = "I"
	MsgTypeAllocationInstruction    = "J"
	MsgTypeListCancelRequest        = "K"
	MsgTypeListExecute              = "L"
	MsgTypeListStatusRequest        = "M"
	MsgTypeListStatus               = "N"
	MsgTypeAllocationInstructionAck = "P"
	MsgTypeDontKnowTrade            = "Q"
	MsgTypeQuoteRequest             = "R"
	MsgTypeQuote                    = "S"
	MsgTypeSettlementInstructions   = "T"
	MsgTypeSettlementInstructionReq = "U"
	MsgTypeMarketDataRequest        = "V"
	MsgTypeMarketDataSnapshot       = "W"
	MsgTypeMarketDataIncremental    = "X"
	MsgTypeMarketDataRequestReject  = "Y"
	MsgTypeQuoteCancel              = "Z"
)

// headerTags are required for every message type, in emission order
var headerTags = []fix.Tag{
	fix.TagBeginString,
	fix.TagBodyLength,
	fix.TagMsgType,
	fix.TagSenderCompID,
	fix.TagTargetCompID,
	fix.TagMsgSeqNum,
	fix.TagSendingTime,
	fix.TagCheckSum,
}

// fix44Messages maps message type to tags required in addition to the shared
// header/trailer
var fix44Messages = map[string][]fix.Tag{
	MsgTypeHeartbeat:                nil,
	MsgTypeTestRequest:              {112},
	MsgTypeResendRequest:            {7, 16},
	MsgTypeReject:                   {45, 58},
	MsgTypeSequenceReset:            {36},
	MsgTypeLogout:                   nil,
	MsgTypeIOI:                      nil,
	MsgTypeAdvertisement:            nil,
	MsgTypeExecutionReport:          {6, 11, 14, 17, 20, 31, 32, 37, 38, 39, 40, 54, 55, 60},
	MsgTypeOrderCancelReject:        {11, 37, 39, 434},
	MsgTypeLogon:                    nil,
	MsgTypeNews:                     nil,
	MsgTypeEmail:                    nil,
	MsgTypeNewOrderSingle:           {11, 21, 55, 54, 60},
	MsgTypeNewOrderList:             nil,
	MsgTypeOrderCancelRequest:       {11, 21, 41, 55, 54, 60},
	MsgTypeOrderCancelReplace:       {11, 21, 41, 55, 54, 60},
	MsgTypeOrderStatusRequest:       {11, 21, 55, 54, 60},
	MsgTypeListStrikePrice:          nil,
	MsgTypeAllocationInstruction:    nil,
	MsgTypeListCancelRequest:        nil,
	MsgTypeListExecute:              nil,
	MsgTypeListStatusRequest:        nil,
	MsgTypeListStatus:               nil,
	MsgTypeAllocationInstructionAck: nil,
	MsgTypeDontKnowTrade:            nil,
	MsgTypeQuoteRequest:             nil,
	MsgTypeQuote:                    nil,
	MsgTypeSettlementInstructions:   nil,
	MsgTypeSettlementInstructionReq: nil,
	MsgTypeMarketDataRequest:        {262, 263, 264, 265, 267, 269},
	MsgTypeMarketDataSnapshot:       {262, 268},
	MsgTypeMarketDataIncremental:    {262, 268},
	MsgTypeMarketDataRequestReject:  {262, 58},
	MsgTypeQuoteCancel:              nil,
}

var fix44Fields = []FieldDef{
	{Tag: 8, Name: "BeginString", Type: TypeText, Header: true},
	{Tag: 9, Name: "BodyLength", Type: TypeLength, Header: true},
	{Tag: 10, Name: "CheckSum", Type: TypeText, Header: true},
	{Tag: 34, Name: "MsgSeqNum", Type: TypeSeqNum, Header: true},
	{Tag: 35, Name: "MsgType", Type: TypeText, Header: true},
	{Tag: 49, Name: "SenderCompID", Type: TypeText, Header: true},
	{Tag: 52, Name: "SendingTime", Type: TypeUTCTimestamp, Header: true},
	{Tag: 56, Name: "TargetCompID", Type: TypeText, Header: true},

	{Tag: 1, Name: "Account", Type: TypeText},
	{Tag: 6, Name: "AvgPx", Type: TypeQty},
	{Tag: 7, Name: "BeginSeqNo", Type: TypeSeqNum},
	{Tag: 11, Name: "ClOrdID", Type: TypeText},
	{Tag: 14, Name: "CumQty", Type: TypeQty},
	{Tag: 15, Name: "Currency", Type: TypeText},
	{Tag: 16, Name: "EndSeqNo", Type: TypeSeqNum},
	{Tag: 17, Name: "ExecID", Type: TypeText},
	{Tag: 18, Name: "ExecInst", Type: TypeText},
	{Tag: 20, Name: "ExecTransType", Type: TypeChar},
	{Tag: 21, Name: "HandlInst", Type: TypeChar},
	{Tag: 22, Name: "SecurityIDSource", Type: TypeText},
	{Tag: 31, Name: "LastPx", Type: TypeQty},
	{Tag: 32, Name: "LastQty", Type: TypeQty},
	{Tag: 36, Name: "NewSeqNo", Type: TypeSeqNum},
	{Tag: 37, Name: "OrderID", Type: TypeText},
	{Tag: 38, Name: "OrderQty", Type: TypeQty},
	{Tag: 39, Name: "OrdStatus", Type: TypeChar},
	{Tag: 40, Name: "OrdType", Type: TypeChar},
	{Tag: 41, Name: "OrigClOrdID", Type: TypeText},
	{Tag: 43, Name: "PossDupFlag", Type: TypeChar},
	{Tag: 44, Name: "Price", Type: TypeQty},
	{Tag: 45, Name: "RefSeqNum", Type: TypeSeqNum},
	{Tag: 48, Name: "SecurityID", Type: TypeText},
	{Tag: 54, Name: "Side", Type: TypeChar},
	{Tag: 55, Name: "Symbol", Type: TypeText},
	{Tag: 58, Name: "Text", Type: TypeText},
	{Tag: 59, Name: "TimeInForce", Type: TypeChar},
	{Tag: 60, Name: "TransactTime", Type: TypeUTCTimestamp},
	{Tag: 63, Name: "SettlType", Type: TypeText},
	{Tag: 64, Name: "SettlDate", Type: TypeText},
	{Tag: 75, Name: "TradeDate", Type: TypeText},
	{Tag: 97, Name: "PossResend", Type: TypeChar},
	{Tag: 98, Name: "EncryptMethod", Type: TypeInt},
	{Tag: 99, Name: "StopPx", Type: TypeQty},
	{Tag: 100, Name: "ExDestination", Type: TypeText},
	{Tag: 102, Name: "CxlRejReason", Type: TypeInt},
	{Tag: 103, Name: "OrdRejReason", Type: TypeInt},
	{Tag: 108, Name: "HeartBtInt", Type: TypeInt},
	{Tag: 112, Name: "TestReqID", Type: TypeText},
	{Tag: 117, Name: "QuoteID", Type: TypeText},
	{Tag: 122, Name: "OrigSendingTime", Type: TypeUTCTimestamp},
	{Tag: 123, Name: "GapFillFlag", Type: TypeChar},
	{Tag: 131, Name: "QuoteReqID", Type: TypeText},
	{Tag: 141, Name: "ResetSeqNumFlag", Type: TypeChar},
	{Tag: 146, Name: "NoRelatedSym", Type: TypeInt},
	{Tag: 150, Name: "ExecType", Type: TypeChar},
	{Tag: 151, Name: "LeavesQty", Type: TypeQty},
	{Tag: 167, Name: "SecurityType", Type: TypeText},
	{Tag: 207, Name: "SecurityExchange", Type: TypeText},
	{Tag: 262, Name: "MDReqID", Type: TypeText},
	{Tag: 263, Name: "SubscriptionRequestType", Type: TypeChar},
	{Tag: 264, Name: "MarketDepth", Type: TypeInt},
	{Tag: 265, Name: "MDUpdateType", Type: TypeInt},
	{Tag: 267, Name: "NoMDEntryTypes", Type: TypeInt},
	{Tag: 268, Name: "NoMDEntries", Type: TypeInt},
	{Tag: 269, Name: "MDEntryType", Type: TypeChar},
	{Tag: 270, Name: "MDEntryPx", Type: TypeQty},
	{Tag: 271, Name: "MDEntrySize", Type: TypeQty},
	{Tag: 273, Name: "MDEntryTime", Type: TypeText},
	{Tag: 279, Name: "MDUpdateAction", Type: TypeChar},
	{Tag: 281, Name: "MDReqRejReason", Type: TypeChar},
	{Tag: 336, Name: "TradingSessionID", Type: TypeText},
	{Tag: 369, Name: "LastMsgSeqNumProcessed", Type: TypeSeqNum},
	{Tag: 371, Name: "RefTagID", Type: TypeInt},
	{Tag: 372, Name: "RefMsgType", Type: TypeText},
	{Tag: 373, Name: "SessionRejectReason", Type: TypeInt},
	{Tag: 434, Name: "CxlRejResponseTo", Type: TypeChar},
	{Tag: 553, Name: "Username", Type: TypeText},
	{Tag: 554, Name: "Password", Type: TypeText},
}

// Dictionary is immutable table of FIX 4.4 message types, required-field sets
// and field definitions. It is created once and can be shared between
// goroutines.
type Dictionary struct {
	messages map[string][]fix.Tag
	fields   map[fix.Tag]FieldDef
}

// NewDictionary creates Dictionary from the compiled-in FIX 4.4 tables
func NewDictionary() *Dictionary {
	fields := make(map[fix.Tag]FieldDef, len(fix44Fields))
	for _, f := range fix44Fields {
		fields[f.Tag] = f
	}
	return &Dictionary{
		messages: fix44Messages,
		fields:   fields,
	}
}

// IsValidMsgType reports whether given tag 35 value is a known FIX 4.4 message type
func (d *Dictionary) IsValidMsgType(msgType string) bool {
	_, ok := d.messages[msgType]
	return ok
}

// RequiredFields returns tags that must appear in a message of given type,
// shared header/trailer tags included. Unknown message type returns empty set.
func (d *Dictionary) RequiredFields(msgType string) []fix.Tag {
	additional, ok := d.messages[msgType]
	if !ok {
		return nil
	}
	result := make([]fix.Tag, 0, len(headerTags)+len(additional))
	result = append(result, headerTags...)
	result = append(result, additional...)
	return result
}

// FieldDef returns definition for given tag
func (d *Dictionary) FieldDef(tag fix.Tag) (FieldDef, bool) {
	def, ok := d.fields[tag]
	return def, ok
}

// IsHeaderField reports whether tag belongs to the shared header/trailer
func (d *Dictionary) IsHeaderField(tag fix.Tag) bool {
	def, ok := d.fields[tag]
	return ok && def.Header
}

// ValidateValue reports whether value bytes conform to the type class of given
// tag. Unknown tags are always valid as FIX permits user defined fields.
func (d *Dictionary) ValidateValue(tag fix.Tag, value []byte) bool {
	def, ok := d.fields[tag]
	if !ok {
		return true
	}
	return def.Type.Valid(value)
}
