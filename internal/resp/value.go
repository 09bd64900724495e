// Package resp implements the RESP (REdis Serialization Protocol) wire
// format: an incremental decoder from a growing byte buffer into typed
// values, and an encoder back to bytes.
package resp

import "fmt"

// Value is a single RESP value as it flows over the wire. Decode copies
// the bytes of bulk strings, simple strings and errors out of the input
// buffer, so a decoded Value does not alias that buffer and stays valid
// after the buffer is reused.
type Value struct {
	Type     Type
	Str      []byte  // SimpleString, Error, BulkString
	Int      int64   // Integer
	Array    []Value // Array
	ErrorMsg []byte  // ErrorMsg: internal-only, encodes like Error
}

// Type identifies the RESP variant held by a Value.
type Type int

const (
	SimpleString Type = iota
	Error
	BulkString
	Integer
	Array_
	NullBulkString
	NullArray
	ErrorMsgType
)

func SimpleStringValue(b []byte) Value { return Value{Type: SimpleString, Str: b} }
func ErrorValue(b []byte) Value        { return Value{Type: Error, Str: b} }
func ErrorMsgValue(b []byte) Value     { return Value{Type: ErrorMsgType, ErrorMsg: b} }
func BulkStringValue(b []byte) Value   { return Value{Type: BulkString, Str: b} }
func IntegerValue(i int64) Value       { return Value{Type: Integer, Int: i} }
func ArrayValue(vs []Value) Value      { return Value{Type: Array_, Array: vs} }

var (
	NullBulkStringValue = Value{Type: NullBulkString}
	NullArrayValue      = Value{Type: NullArray}
)

// Equal reports deep equality, used by the codec's round-trip tests.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case SimpleString, Error, BulkString:
		return string(v.Str) == string(o.Str)
	case ErrorMsgType:
		return string(v.ErrorMsg) == string(o.ErrorMsg)
	case Integer:
		return v.Int == o.Int
	case Array_:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.Type {
	case SimpleString:
		return fmt.Sprintf("SimpleString(%q)", v.Str)
	case Error:
		return fmt.Sprintf("Error(%q)", v.Str)
	case ErrorMsgType:
		return fmt.Sprintf("ErrorMsg(%q)", v.ErrorMsg)
	case BulkString:
		return fmt.Sprintf("BulkString(%q)", v.Str)
	case Integer:
		return fmt.Sprintf("Integer(%d)", v.Int)
	case Array_:
		return fmt.Sprintf("Array(%v)", v.Array)
	case NullBulkString:
		return "NullBulkString"
	case NullArray:
		return "NullArray"
	default:
		return "Unknown"
	}
}
