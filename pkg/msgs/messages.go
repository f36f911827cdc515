package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/softuart/pkg/framework"
)

// CommandErr is the generic message representing command error.
type CommandErr struct {
	CommandErrPb
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{CommandErrPb: CommandErrPb{Message: err.Error()}}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return &m.CommandErrPb }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// WriteRequest command.
type WriteRequest struct {
	WriteRequestPb
}

// NewWriteRequest creates a WriteRequest.
func NewWriteRequest(data []byte, nonBlocking bool) *WriteRequest {
	return &WriteRequest{WriteRequestPb: WriteRequestPb{Data: data, NonBlocking: nonBlocking}}
}

// NewMessage implements Message.
func (m *WriteRequest) NewMessage() fx.Message { return &WriteRequest{} }

// TypeID implements SerializableMessage.
func (m *WriteRequest) TypeID() uint32 { return WriteRequestTypeID }

// Serializable implements SerializableMessage.
func (m *WriteRequest) Serializable() proto.Message { return &m.WriteRequestPb }

// WriteResult response.
type WriteResult struct {
	WriteResultPb
}

// NewMessage implements Message.
func (m *WriteResult) NewMessage() fx.Message { return &WriteResult{} }

// TypeID implements SerializableMessage.
func (m *WriteResult) TypeID() uint32 { return WriteResultTypeID }

// Serializable implements SerializableMessage.
func (m *WriteResult) Serializable() proto.Message { return &m.WriteResultPb }

// StatusQuery command.
type StatusQuery struct {
	emptyPb
}

// NewMessage implements Message.
func (m *StatusQuery) NewMessage() fx.Message { return &StatusQuery{} }

// TypeID implements SerializableMessage.
func (m *StatusQuery) TypeID() uint32 { return StatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StatusQuery) Serializable() proto.Message { return &m.emptyPb }

// Status response, also published as StatusEvent.
type Status struct {
	StatusPb
	typeID uint32
}

// NewStatusEvent creates a Status to be sent as an event.
func NewStatusEvent(pb StatusPb) *Status {
	return &Status{StatusPb: pb, typeID: StatusEventTypeID}
}

// NewMessage implements Message.
func (m *Status) NewMessage() fx.Message { return &Status{} }

// TypeID implements SerializableMessage.
func (m *Status) TypeID() uint32 {
	if m.typeID == 0 {
		return StatusTypeID
	}
	return m.typeID
}

// Serializable implements SerializableMessage.
func (m *Status) Serializable() proto.Message { return &m.StatusPb }

// WireReport event.
type WireReport struct {
	WireReportPb
}

// NewMessage implements Message.
func (m *WireReport) NewMessage() fx.Message { return &WireReport{} }

// TypeID implements SerializableMessage.
func (m *WireReport) TypeID() uint32 { return WireReportTypeID }

// Serializable implements SerializableMessage.
func (m *WireReport) Serializable() proto.Message { return &m.WireReportPb }

// Empty reports whether nothing happened on the line.
func (m *WireReport) Empty() bool {
	return m.Frames == 0 && m.FramingErrors == 0 && m.ParityErrors == 0
}

type emptyPb struct{}

func (m *emptyPb) Reset()         {}
func (m *emptyPb) String() string { return "" }
func (*emptyPb) ProtoMessage()    {}

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupTx      uint32 = 0x00010000
	GroupWire    uint32 = 0x00020000
)

// TypeIDs
const (
	CommandErrTypeID   uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	WriteRequestTypeID uint32 = GroupTx | 0x0000
	WriteResultTypeID  uint32 = WriteRequestTypeID | TypeIDMaskReply
	StatusQueryTypeID  uint32 = GroupTx | 0x0001
	StatusTypeID       uint32 = StatusQueryTypeID | TypeIDMaskReply
	StatusEventTypeID  uint32 = TypeIDKindEvent | GroupTx | 0x0001
	WireReportTypeID   uint32 = TypeIDKindEvent | GroupWire | 0x0000
)

var (
	// ErrUnknownCommand indicates the command is unknown.
	ErrUnknownCommand = errors.New("unknown command")
)
