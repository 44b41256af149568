package rpc

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every request and response exchanged with the
// phone book service. Encoding follows the protobuf wire format of
// api/connection.proto.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal(b []byte) error
}

// RecordRequest carries the fields of a record to add.
type RecordRequest struct {
	Name       string
	Surname    string
	Patronymic string
	Number     string
	Note       string
}

func (m *RecordRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.Surname)
	b = appendString(b, 3, m.Patronymic)
	b = appendString(b, 4, m.Number)
	b = appendString(b, 5, m.Note)
	return b, nil
}

func (m *RecordRequest) Unmarshal(b []byte) error {
	*m = RecordRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case 1:
			return consumeString(typ, v, &m.Name)
		case 2:
			return consumeString(typ, v, &m.Surname)
		case 3:
			return consumeString(typ, v, &m.Patronymic)
		case 4:
			return consumeString(typ, v, &m.Number)
		case 5:
			return consumeString(typ, v, &m.Note)
		}
		return 0
	})
}

// RecordResponse is a single record as sent by the service. ID 0 means the
// service has no such record.
type RecordResponse struct {
	ID         uint64
	Name       string
	Surname    string
	Patronymic string
	Number     string
	Note       string
}

func (m *RecordResponse) Marshal() ([]byte, error) {
	var b []byte
	b = appendVarint(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Surname)
	b = appendString(b, 4, m.Patronymic)
	b = appendString(b, 5, m.Number)
	b = appendString(b, 6, m.Note)
	return b, nil
}

func (m *RecordResponse) Unmarshal(b []byte) error {
	*m = RecordResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) int {
		switch num {
		case 1:
			return consumeVarint(typ, v, &m.ID)
		case 2:
			return consumeString(typ, v, &m.Name)
		case 3:
			return consumeString(typ, v, &m.Surname)
		case 4:
			return consumeString(typ, v, &m.Patronymic)
		case 5:
			return consumeString(typ, v, &m.Number)
		case 6:
			return consumeString(typ, v, &m.Note)
		}
		return 0
	})
}

// CodeResponse answers a mutation. Code 1 means the mutation applied and
// 0 means the service rejected it. The field decodes from any varint type,
// so bool and integer codes both work.
type CodeResponse struct {
	Code uint64
}

func (m *CodeResponse) OK() bool { return m != nil && m.Code != 0 }

func (m *CodeResponse) Marshal() ([]byte, error) {
	return appendVarint(nil, 1, m.Code), nil
}

func (m *CodeResponse) Unmarshal(b []byte) error {
	*m = CodeResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) int {
		if num == 1 {
			return consumeVarint(typ, v, &m.Code)
		}
		return 0
	})
}

// IDRequest addresses a record by id (DeleteRecordById, FindRecordById).
type IDRequest struct {
	ID uint64
}

func (m *IDRequest) Marshal() ([]byte, error) {
	return appendVarint(nil, 1, m.ID), nil
}

func (m *IDRequest) Unmarshal(b []byte) error {
	*m = IDRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) int {
		if num == 1 {
			return consumeVarint(typ, v, &m.ID)
		}
		return 0
	})
}

// TextRequest carries the single string field of the number, name, surname,
// patronymic and note requests.
type TextRequest struct {
	Value string
}

func (m *TextRequest) Marshal() ([]byte, error) {
	return appendString(nil, 1, m.Value), nil
}

func (m *TextRequest) Unmarshal(b []byte) error {
	*m = TextRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) int {
		if num == 1 {
			return consumeString(typ, v, &m.Value)
		}
		return 0
	})
}

// Zero values are omitted, as proto3 does.
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// walk calls visit for every field in b. visit returns the number of bytes
// it consumed, 0 to skip the field, or a negative protowire error code.
func walk(b []byte, visit func(num protowire.Number, typ protowire.Type, v []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m := visit(num, typ, b)
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return 0
	}
	s, n := protowire.ConsumeString(b)
	if n < 0 {
		return n
	}
	*dst = s
	return n
}

func consumeVarint(typ protowire.Type, b []byte, dst *uint64) int {
	if typ != protowire.VarintType {
		return 0
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return n
	}
	*dst = v
	return n
}
