// Package store implements the process-wide, shard-indexed state held by
// the server: per-database typed containers (strings, sets, lists,
// hashes, sorted sets, stacks, bloom filters, hyperloglogs) plus the
// receipt table backing blocking list operations.
package store

import "github.com/ccresp/respd/internal/resp"

// Key and Value are the byte payloads flowing through every container.
// They are Go strings, so a stored payload cannot be changed by the
// caller after handing it to the store.
type Key = string
type Value = string

type (
	Count    = int64
	Index    = int64
	Score    = int64
	UTimeout = int64
)

// ReturnValue is the superset sum type executors build; Encode maps it
// 1:1 onto a resp.Value for the wire.
type ReturnValue struct {
	kind ReturnKind

	str      string
	i        int64
	multi    []string
	arr      []ReturnValue
	errMsg   string
	passthru resp.Value
}

type ReturnKind int

const (
	RVOk ReturnKind = iota
	RVNil
	RVInt
	RVString
	RVMultiString
	RVArray
	RVError
	RVPass
)

func Ok() ReturnValue                { return ReturnValue{kind: RVOk} }
func Nil() ReturnValue               { return ReturnValue{kind: RVNil} }
func Int(i int64) ReturnValue        { return ReturnValue{kind: RVInt, i: i} }
func String(s string) ReturnValue    { return ReturnValue{kind: RVString, str: s} }
func MultiString(ss []string) ReturnValue {
	return ReturnValue{kind: RVMultiString, multi: ss}
}
func Array(vs []ReturnValue) ReturnValue { return ReturnValue{kind: RVArray, arr: vs} }
func Err(msg string) ReturnValue         { return ReturnValue{kind: RVError, errMsg: msg} }
func Pass(v resp.Value) ReturnValue      { return ReturnValue{kind: RVPass, passthru: v} }

// Encode converts a ReturnValue into the resp.Value written to the wire.
func (r ReturnValue) Encode() resp.Value {
	switch r.kind {
	case RVOk:
		return resp.SimpleStringValue([]byte("OK"))
	case RVNil:
		return resp.NullBulkStringValue
	case RVInt:
		return resp.IntegerValue(r.i)
	case RVString:
		return resp.BulkStringValue([]byte(r.str))
	case RVMultiString:
		vals := make([]resp.Value, len(r.multi))
		for i, s := range r.multi {
			vals[i] = resp.BulkStringValue([]byte(s))
		}
		return resp.ArrayValue(vals)
	case RVArray:
		vals := make([]resp.Value, len(r.arr))
		for i, v := range r.arr {
			vals[i] = v.Encode()
		}
		return resp.ArrayValue(vals)
	case RVError:
		return resp.ErrorMsgValue([]byte(r.errMsg))
	case RVPass:
		return r.passthru
	default:
		panic("store: unknown ReturnValue kind")
	}
}

// Kind/Str/Int/Multi/ArrayVals give executors and tests read access to a
// ReturnValue's payload without exporting the fields directly.
func (r ReturnValue) Kind() ReturnKind     { return r.kind }
func (r ReturnValue) Str() string          { return r.str }
func (r ReturnValue) IntVal() int64        { return r.i }
func (r ReturnValue) Multi() []string      { return r.multi }
func (r ReturnValue) ArrayVals() []ReturnValue { return r.arr }
func (r ReturnValue) ErrMsg() string       { return r.errMsg }

var (
	ErrWrongType = Err("WRONGTYPE key holds the wrong kind of value")
)
