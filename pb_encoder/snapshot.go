// Package pb encodes maze session snapshots in protobuf wire format.
//
// The message layout is:
//
//	message Snapshot {
//	  string id = 1;
//	  repeated int64 shape = 2;
//	  bytes walls = 3;
//	  repeated int64 position = 4;
//	  bool done = 5;
//	  int64 carved = 6;
//	  bool won = 7;
//	  repeated Coordinate walk = 8; // Coordinate { repeated int64 index = 1; } packed inline
//	}
package pb

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// ContentType is the media type served for protobuf snapshots.
const ContentType = "application/x-protobuf"

const (
	idField       protowire.Number = 1
	shapeField    protowire.Number = 2
	wallsField    protowire.Number = 3
	positionField protowire.Number = 4
	doneField     protowire.Number = 5
	carvedField   protowire.Number = 6
	wonField      protowire.Number = 7
	walkField     protowire.Number = 8
)

var errUnexpectedWireType = errors.New("unexpected wire type")

// Protobuf marshals snapshots to and from protobuf wire format.
type Protobuf struct{}

// MarshalSnapshot encodes s. Default values are omitted as in proto3.
func (p *Protobuf) MarshalSnapshot(s *service.Snapshot) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil snapshot")
	}

	var b []byte
	if s.ID != uuid.Nil {
		b = protowire.AppendTag(b, idField, protowire.BytesType)
		b = protowire.AppendString(b, s.ID.String())
	}
	b = appendPacked(b, shapeField, s.Shape)
	if len(s.Walls) > 0 {
		b = protowire.AppendTag(b, wallsField, protowire.BytesType)
		b = protowire.AppendBytes(b, s.Walls)
	}
	b = appendPacked(b, positionField, s.Position)
	if s.Done {
		b = protowire.AppendTag(b, doneField, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	if s.Carved != 0 {
		b = protowire.AppendTag(b, carvedField, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(s.Carved)))
	}
	if s.Won {
		b = protowire.AppendTag(b, wonField, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	for _, c := range s.Walk {
		b = protowire.AppendTag(b, walkField, protowire.BytesType)
		b = protowire.AppendBytes(b, packInts(c))
	}

	return b, nil
}

// UnmarshalSnapshot decodes a snapshot. Repeated scalars may be packed or not;
// unknown fields are skipped.
func (p *Protobuf) UnmarshalSnapshot(b []byte) (*service.Snapshot, error) {
	s := &service.Snapshot{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		n, err := p.consumeField(s, num, typ, b)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", num, err)
		}
		b = b[n:]
	}

	return s, nil
}

func (p *Protobuf) consumeField(s *service.Snapshot, num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case idField:
		if typ != protowire.BytesType {
			return 0, errUnexpectedWireType
		}
		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		id, err := uuid.Parse(v)
		if err != nil {
			return 0, err
		}
		s.ID = id
		return n, nil

	case shapeField:
		vals, n, err := consumeInts(typ, b)
		s.Shape = append(s.Shape, vals...)
		return n, err

	case wallsField:
		if typ != protowire.BytesType {
			return 0, errUnexpectedWireType
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		s.Walls = append(s.Walls, v...)
		return n, nil

	case positionField:
		vals, n, err := consumeInts(typ, b)
		s.Position = append(s.Position, vals...)
		return n, err

	case doneField, wonField, carvedField:
		if typ != protowire.VarintType {
			return 0, errUnexpectedWireType
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		switch num {
		case doneField:
			s.Done = protowire.DecodeBool(v)
		case wonField:
			s.Won = protowire.DecodeBool(v)
		default:
			s.Carved = int(int64(v))
		}
		return n, nil

	case walkField:
		if typ != protowire.BytesType {
			return 0, errUnexpectedWireType
		}
		vals, n, err := consumeInts(typ, b)
		if err != nil {
			return 0, err
		}
		s.Walk = append(s.Walk, maze.Coordinate(vals))
		return n, nil

	default:
		n := protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		return n, nil
	}
}

func appendPacked(b []byte, num protowire.Number, vals []int) []byte {
	if len(vals) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packInts(vals))
}

func packInts(vals []int) []byte {
	packed := make([]byte, 0, len(vals))
	for _, v := range vals {
		packed = protowire.AppendVarint(packed, uint64(int64(v)))
	}
	return packed
}

// consumeInts reads one unpacked varint or a packed run of varints.
func consumeInts(typ protowire.Type, b []byte) ([]int, int, error) {
	switch typ {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}
		return []int{int(int64(v))}, n, nil

	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}
		vals := make([]int, 0, len(packed))
		for len(packed) > 0 {
			v, m := protowire.ConsumeVarint(packed)
			if m < 0 {
				return nil, 0, protowire.ParseError(m)
			}
			vals = append(vals, int(int64(v)))
			packed = packed[m:]
		}
		return vals, n, nil

	default:
		return nil, 0, errUnexpectedWireType
	}
}
