package resp

import (
	"strconv"
)

// Encode appends the wire representation of v to dst and returns the
// extended slice. It is the dual of Decode: every value Decode can
// produce, Encode can write back out byte-for-byte compatible with the
// grammar (CRLF-terminated lines, length-prefixed bulk strings/arrays).
func Encode(dst []byte, v Value) []byte {
	switch v.Type {
	case SimpleString:
		dst = append(dst, '+')
		dst = append(dst, v.Str...)
		return appendCRLF(dst)
	case Error, ErrorMsgType:
		dst = append(dst, '-')
		if v.Type == ErrorMsgType {
			dst = append(dst, v.ErrorMsg...)
		} else {
			dst = append(dst, v.Str...)
		}
		return appendCRLF(dst)
	case BulkString:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.Str)), 10)
		dst = appendCRLF(dst)
		dst = append(dst, v.Str...)
		return appendCRLF(dst)
	case Integer:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.Int, 10)
		return appendCRLF(dst)
	case NullBulkString:
		return append(dst, '$', '-', '1', '\r', '\n')
	case NullArray:
		return append(dst, '*', '-', '1', '\r', '\n')
	case Array_:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.Array)), 10)
		dst = appendCRLF(dst)
		for _, e := range v.Array {
			dst = Encode(dst, e)
		}
		return dst
	default:
		panic("resp: unknown value type")
	}
}

func appendCRLF(dst []byte) []byte {
	return append(dst, '\r', '\n')
}
