package records

import (
	"encoding/hex"

	"github.com/golang/protobuf/jsonpb"
	structpb "github.com/golang/protobuf/ptypes/struct"
)

// ToStruct converts the record to a protobuf Struct.
// Byte arrays are rendered in hex.
func (r *Record) ToStruct() *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(r.Values))}
	for name, v := range r.Values {
		s.Fields[name] = toValue(v)
	}
	return s
}

// MarshalJSON implements json.Marshaler.
func (r *Record) MarshalJSON() ([]byte, error) {
	var m jsonpb.Marshaler
	str, err := m.MarshalToString(r.ToStruct())
	if err != nil {
		return nil, err
	}
	return []byte(str), nil
}

func toValue(v interface{}) *structpb.Value {
	switch val := v.(type) {
	case bool:
		return &structpb.Value{Kind: &structpb.Value_BoolValue{BoolValue: val}}
	case string:
		return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: val}}
	case []byte:
		return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: hex.EncodeToString(val)}}
	case uint8:
		return number(float64(val))
	case uint16:
		return number(float64(val))
	case uint32:
		return number(float64(val))
	case int16:
		return number(float64(val))
	case int32:
		return number(float64(val))
	}
	return &structpb.Value{Kind: &structpb.Value_NullValue{}}
}

func number(n float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: n}}
}
