package msgs

import "github.com/golang/protobuf/proto"

// TypedPb is the wire form of Typed.
type TypedPb struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *TypedPb) Reset()         { *m = TypedPb{} }
func (m *TypedPb) String() string { return proto.CompactTextString(m) }
func (*TypedPb) ProtoMessage()    {}

// WriteRequestPb asks for Data to be transmitted.
type WriteRequestPb struct {
	Data        []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
	NonBlocking bool   `protobuf:"varint,2,opt,name=non_blocking,json=nonBlocking,proto3" json:"non_blocking,omitempty"`
}

func (m *WriteRequestPb) Reset()         { *m = WriteRequestPb{} }
func (m *WriteRequestPb) String() string { return proto.CompactTextString(m) }
func (*WriteRequestPb) ProtoMessage()    {}

// WriteResultPb replies a WriteRequestPb.
type WriteResultPb struct {
	Queued  uint32 `protobuf:"varint,1,opt,name=queued,proto3" json:"queued,omitempty"`
	Busy    bool   `protobuf:"varint,2,opt,name=busy,proto3" json:"busy,omitempty"`
	Message string `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *WriteResultPb) Reset()         { *m = WriteResultPb{} }
func (m *WriteResultPb) String() string { return proto.CompactTextString(m) }
func (*WriteResultPb) ProtoMessage()    {}

// StatusPb is a snapshot of the transmitter.
type StatusPb struct {
	Queued   uint32 `protobuf:"varint,1,opt,name=queued,proto3" json:"queued,omitempty"`
	Capacity uint32 `protobuf:"varint,2,opt,name=capacity,proto3" json:"capacity,omitempty"`
	Sending  bool   `protobuf:"varint,3,opt,name=sending,proto3" json:"sending,omitempty"`
	Armed    bool   `protobuf:"varint,4,opt,name=armed,proto3" json:"armed,omitempty"`
}

func (m *StatusPb) Reset()         { *m = StatusPb{} }
func (m *StatusPb) String() string { return proto.CompactTextString(m) }
func (*StatusPb) ProtoMessage()    {}

// WireReportPb summarizes what was decoded on the line since the last report.
type WireReportPb struct {
	Data          []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
	Frames        uint64 `protobuf:"varint,2,opt,name=frames,proto3" json:"frames,omitempty"`
	FramingErrors uint64 `protobuf:"varint,3,opt,name=framing_errors,json=framingErrors,proto3" json:"framing_errors,omitempty"`
	ParityErrors  uint64 `protobuf:"varint,4,opt,name=parity_errors,json=parityErrors,proto3" json:"parity_errors,omitempty"`
	Ticks         uint64 `protobuf:"varint,5,opt,name=ticks,proto3" json:"ticks,omitempty"`
}

func (m *WireReportPb) Reset()         { *m = WireReportPb{} }
func (m *WireReportPb) String() string { return proto.CompactTextString(m) }
func (*WireReportPb) ProtoMessage()    {}

// CommandErrPb is the generic error reply.
type CommandErrPb struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *CommandErrPb) Reset()         { *m = CommandErrPb{} }
func (m *CommandErrPb) String() string { return proto.CompactTextString(m) }
func (*CommandErrPb) ProtoMessage()    {}
