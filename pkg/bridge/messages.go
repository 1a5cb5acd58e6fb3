package bridge

import (
	"github.com/golang/protobuf/proto"
)

// ErrorKind classifies a failed Request.
type ErrorKind int32

// Error kinds.
const (
	ErrorNone ErrorKind = iota
	ErrorValidation
	ErrorParse
	ErrorRemote
	ErrorRetryExhausted
	ErrorTransport
	ErrorBadRequest
)

var errorKindNames = map[ErrorKind]string{
	ErrorNone:           "none",
	ErrorValidation:     "validation",
	ErrorParse:          "parse",
	ErrorRemote:         "remote",
	ErrorRetryExhausted: "retry-exhausted",
	ErrorTransport:      "transport",
	ErrorBadRequest:     "bad-request",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value is a command argument or a reply element.
type Value struct {
	Int   int64  `protobuf:"varint,1,opt,name=int,proto3" json:"int,omitempty"`
	Str   string `protobuf:"bytes,2,opt,name=str,proto3" json:"str,omitempty"`
	IsStr bool   `protobuf:"varint,3,opt,name=is_str,json=isStr,proto3" json:"is_str,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Value) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Value) Reset() { *m = Value{} }

// String implements proto.Message.
func (m *Value) String() string { return proto.CompactTextString(m) }

// Request asks the device to run one command.
// Raw takes precedence over Opcode and Args when set.
type Request struct {
	Seq        uint32   `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Opcode     string   `protobuf:"bytes,2,opt,name=opcode,proto3" json:"opcode,omitempty"`
	Args       []*Value `protobuf:"bytes,3,rep,name=args,proto3" json:"args,omitempty"`
	Raw        string   `protobuf:"bytes,4,opt,name=raw,proto3" json:"raw,omitempty"`
	MaxRetries uint32   `protobuf:"varint,5,opt,name=max_retries,json=maxRetries,proto3" json:"max_retries,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Request) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Request) Reset() { *m = Request{} }

// String implements proto.Message.
func (m *Request) String() string { return proto.CompactTextString(m) }

// Encode encodes the Request to bytes.
func (m *Request) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Reply is the result of a Request.
type Reply struct {
	Seq       uint32    `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Values    []*Value  `protobuf:"bytes,2,rep,name=values,proto3" json:"values,omitempty"`
	ErrorKind ErrorKind `protobuf:"varint,3,opt,name=error_kind,json=errorKind,proto3" json:"error_kind,omitempty"`
	Error     string    `protobuf:"bytes,4,opt,name=error,proto3" json:"error,omitempty"`
	Status    int64     `protobuf:"varint,5,opt,name=status,proto3" json:"status,omitempty"`
	Attempts  uint32    `protobuf:"varint,6,opt,name=attempts,proto3" json:"attempts,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Reply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Reply) Reset() { *m = Reply{} }

// String implements proto.Message.
func (m *Reply) String() string { return proto.CompactTextString(m) }

// Encode encodes the Reply to bytes.
func (m *Reply) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DeviceLog is a log line emitted by the device.
type DeviceLog struct {
	Text string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *DeviceLog) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DeviceLog) Reset() { *m = DeviceLog{} }

// String implements proto.Message.
func (m *DeviceLog) String() string { return proto.CompactTextString(m) }

// Encode encodes the DeviceLog to bytes.
func (m *DeviceLog) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeRequest decodes bytes into Request.
func DecodeRequest(data []byte) (*Request, error) {
	var m Request
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeReply decodes bytes into Reply.
func DecodeReply(data []byte) (*Reply, error) {
	var m Reply
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeDeviceLog decodes bytes into DeviceLog.
func DecodeDeviceLog(data []byte) (*DeviceLog, error) {
	var m DeviceLog
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
