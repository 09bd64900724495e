package ops

import (
	"strconv"
	"strings"

	"github.com/ccresp/respd/internal/resp"
)

// Translate converts a decoded top-level RESP array into a validated Op.
// The first element must be a bulk-string command name (case-insensitive);
// the rest are arguments.
func Translate(v resp.Value) (op Op, err error) {
	if v.Type != resp.Array_ || len(v.Array) == 0 {
		return Op{}, &OpsError{Kind: InvalidStart}
	}
	name, ok := argBytes(v.Array[0])
	if !ok {
		return Op{}, &OpsError{Kind: InvalidType}
	}
	args := v.Array[1:]
	cmd := strings.ToUpper(name)

	defer func() {
		if err == nil {
			op.Name = cmd
		}
	}()

	switch cmd {
	case "PING":
		return Op{Kind: KindPing}, nil
	case "FLUSHALL":
		return Op{Kind: KindFlushAll}, nil
	case "FLUSHDB":
		return Op{Kind: KindFlushDB}, nil
	case "KEYS":
		return Op{Kind: KindKeysList}, nil
	case "EXISTS":
		keys, err := atLeast(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindExists, Keys: keys}, nil
	case "PRINTCMDS":
		return Op{Kind: KindPrintCmds}, nil

	case "GET":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindGet, Key: key}, nil
	case "SET":
		kv, err := exactlyTwoArgs(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSet, Key: kv[0], Member: kv[1]}, nil
	case "MGET":
		keys, err := atLeast(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindMGet, Keys: keys}, nil
	case "MSET":
		pairs, err := keyValuePairs(args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindMSet, Pairs: pairs}, nil
	case "DEL":
		keys, err := atLeast(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindDel, Keys: keys}, nil
	case "RENAME":
		kv, err := exactlyTwoArgs(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindRename, Key: kv[0], Key2: kv[1]}, nil
	case "RENAMENX":
		kv, err := exactlyTwoArgs(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindRenameNX, Key: kv[0], Key2: kv[1]}, nil

	case "SADD":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSAdd, Key: key, Members: tail}, nil
	case "SREM":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSRem, Key: key, Members: tail}, nil
	case "SMEMBERS":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSMembers, Key: key}, nil
	case "SCARD":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSCard, Key: key}, nil
	case "SDIFF":
		keys, err := atLeast(cmd, args, 2)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSDiff, Keys: keys}, nil
	case "SUNION":
		keys, err := atLeast(cmd, args, 2)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSUnion, Keys: keys}, nil
	case "SINTER":
		keys, err := atLeast(cmd, args, 2)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSInter, Keys: keys}, nil
	case "SDIFFSTORE":
		dest, keys, err := destAndKeys(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSDiffStore, Key2: dest, Keys: keys}, nil
	case "SUNIONSTORE":
		dest, keys, err := destAndKeys(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSUnionStore, Key2: dest, Keys: keys}, nil
	case "SINTERSTORE":
		dest, keys, err := destAndKeys(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSInterStore, Key2: dest, Keys: keys}, nil
	case "SPOP":
		key, count, has, err := keyAndOptionalCount(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSPop, Key: key, Count: count, HasCount: has}, nil
	case "SISMEMBER":
		kv, err := exactlyTwoArgs(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSIsMember, Key: kv[0], Member: kv[1]}, nil
	case "SMOVE":
		if len(args) != 3 {
			return Op{}, &OpsError{Kind: WrongNumberOfArgs, Req: 3, Given: len(args)}
		}
		src, err := reqBytes(args[0])
		if err != nil {
			return Op{}, err
		}
		dst, err := reqBytes(args[1])
		if err != nil {
			return Op{}, err
		}
		member, err := reqBytes(args[2])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSMove, Key: src, Key2: dst, Member: member}, nil
	case "SRANDMEMBER":
		key, count, has, err := keyAndOptionalCount(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSRandMember, Key: key, Count: count, HasCount: has}, nil

	case "LPUSH":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindLPush, Key: key, Members: tail}, nil
	case "RPUSH":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindRPush, Key: key, Members: tail}, nil
	case "LPUSHX":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindLPushX, Key: key, Members: tail}, nil
	case "RPUSHX":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindRPushX, Key: key, Members: tail}, nil
	case "LLEN":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindLLen, Key: key}, nil
	case "LPOP":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindLPop, Key: key}, nil
	case "RPOP":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindRPop, Key: key}, nil
	case "BLPOP":
		keys, timeoutMS, err := keysAndTimeout(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindBLPop, Keys: keys, TimeoutMS: timeoutMS}, nil
	case "BRPOP":
		keys, timeoutMS, err := keysAndTimeout(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindBRPop, Keys: keys, TimeoutMS: timeoutMS}, nil
	case "LINDEX":
		key, idx, err := keyAndIndex(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindLIndex, Key: key, Index1: idx}, nil
	case "LSET":
		if len(args) != 3 {
			return Op{}, &OpsError{Kind: WrongNumberOfArgs, Req: 3, Given: len(args)}
		}
		key, err := reqBytes(args[0])
		if err != nil {
			return Op{}, err
		}
		idx, err := reqCount(args[1])
		if err != nil {
			return Op{}, err
		}
		val, err := reqBytes(args[2])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindLSet, Key: key, Index1: idx, Member: val}, nil

	case "HGET":
		key, field, err := keyAndField(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHGet, Key: key, Field: field}, nil
	case "HSET":
		if len(args) != 3 {
			return Op{}, &OpsError{Kind: WrongNumberOfArgs, Req: 3, Given: len(args)}
		}
		key, err := reqBytes(args[0])
		if err != nil {
			return Op{}, err
		}
		field, err := reqBytes(args[1])
		if err != nil {
			return Op{}, err
		}
		val, err := reqBytes(args[2])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHSet, Key: key, Field: field, Member: val}, nil
	case "HEXISTS":
		key, field, err := keyAndField(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHExists, Key: key, Field: field}, nil
	case "HGETALL":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHGetAll, Key: key}, nil
	case "HMGET":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHMGet, Key: key, Fields: tail}, nil
	case "HKEYS":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHKeys, Key: key}, nil
	case "HMSET":
		if len(args) < 3 {
			return Op{}, &OpsError{Kind: NotEnoughArgs, Req: 3, Given: len(args)}
		}
		key, err := reqBytes(args[0])
		if err != nil {
			return Op{}, err
		}
		pairs, err := keyValuePairs(args[1:])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHMSet, Key: key, Pairs: pairs}, nil
	case "HLEN":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHLen, Key: key}, nil
	case "HDEL":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindHDel, Key: key, Fields: tail}, nil

	case "ZADD":
		if len(args) < 3 {
			return Op{}, &OpsError{Kind: NotEnoughArgs, Req: 3, Given: len(args)}
		}
		key, err := reqBytes(args[0])
		if err != nil {
			return Op{}, err
		}
		sm, err := scoreMemberPairs(args[1:])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindZAdd, Key: key, ScoreMembers: sm}, nil
	case "ZREM":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindZRem, Key: key, Members: tail}, nil
	case "ZRANGE":
		if len(args) != 3 {
			return Op{}, &OpsError{Kind: WrongNumberOfArgs, Req: 3, Given: len(args)}
		}
		key, err := reqBytes(args[0])
		if err != nil {
			return Op{}, err
		}
		start, err := reqCount(args[1])
		if err != nil {
			return Op{}, err
		}
		stop, err := reqCount(args[2])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindZRange, Key: key, Index1: start, Index2: stop}, nil

	case "BINSERT":
		kv, err := exactlyTwoArgs(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindBInsert, Key: kv[0], Member: kv[1]}, nil
	case "BCONTAINS":
		kv, err := exactlyTwoArgs(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindBContains, Key: kv[0], Member: kv[1]}, nil

	case "PFADD":
		key, tail, err := keyAndTail(cmd, args, 1)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindPFAdd, Key: key, Members: tail}, nil

	case "STPUSH":
		kv, err := exactlyTwoArgs(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSTPush, Key: kv[0], Member: kv[1]}, nil
	case "STPOP":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSTPop, Key: key}, nil
	case "STPEEK":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSTPeek, Key: key}, nil
	case "STLEN":
		key, err := exactlyOneArg(cmd, args)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: KindSTLen, Key: key}, nil

	default:
		return Op{}, &OpsError{Kind: UnknownOp, Name: cmd}
	}
}

// --- argument coercion helpers, grounded on ops.rs's TryFrom impls ---

func argBytes(v resp.Value) (string, bool) {
	if v.Type != resp.BulkString {
		return "", false
	}
	return string(v.Str), true
}

func reqBytes(v resp.Value) (string, error) {
	s, ok := argBytes(v)
	if !ok {
		return "", &OpsError{Kind: InvalidType}
	}
	return s, nil
}

// reqCount coerces a bulk-string or integer argument to a Count via
// ASCII-decimal parsing, matching the Bytes-or-Int TryFrom<Count> impl.
func reqCount(v resp.Value) (int64, error) {
	switch v.Type {
	case resp.Integer:
		return v.Int, nil
	case resp.BulkString:
		n, err := strconv.ParseInt(string(v.Str), 10, 64)
		if err != nil {
			return 0, &OpsError{Kind: InvalidType}
		}
		return n, nil
	default:
		return 0, &OpsError{Kind: InvalidType}
	}
}

func exactlyOneArg(cmd string, args []resp.Value) (string, error) {
	if len(args) != 1 {
		return "", &OpsError{Kind: WrongNumberOfArgs, Req: 1, Given: len(args)}
	}
	return reqBytes(args[0])
}

func exactlyTwoArgs(cmd string, args []resp.Value) ([2]string, error) {
	if len(args) != 2 {
		return [2]string{}, &OpsError{Kind: WrongNumberOfArgs, Req: 2, Given: len(args)}
	}
	a, err := reqBytes(args[0])
	if err != nil {
		return [2]string{}, err
	}
	b, err := reqBytes(args[1])
	if err != nil {
		return [2]string{}, err
	}
	return [2]string{a, b}, nil
}

func atLeast(cmd string, args []resp.Value, min int) ([]string, error) {
	if len(args) < min {
		return nil, &OpsError{Kind: NotEnoughArgs, Req: min, Given: len(args)}
	}
	out := make([]string, len(args))
	for i, a := range args {
		s, err := reqBytes(a)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// keysAndTimeout parses "key [key ...] timeout", the shared BLPOP/BRPOP
// arity: at least one key followed by a trailing timeout in seconds,
// fractional seconds allowed, converted to milliseconds. A timeout of
// zero means block indefinitely.
func keysAndTimeout(cmd string, args []resp.Value) ([]string, int64, error) {
	if len(args) < 2 {
		return nil, 0, &OpsError{Kind: WrongNumberOfArgs, Req: 2, Given: len(args)}
	}
	keys := make([]string, len(args)-1)
	for i, a := range args[:len(args)-1] {
		s, err := reqBytes(a)
		if err != nil {
			return nil, 0, err
		}
		keys[i] = s
	}
	raw, err := reqBytes(args[len(args)-1])
	if err != nil {
		return nil, 0, err
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds < 0 {
		return nil, 0, &OpsError{Kind: InvalidType}
	}
	return keys, int64(seconds * 1000), nil
}

func keyAndTail(cmd string, args []resp.Value, minTail int) (string, []string, error) {
	if len(args) < 1+minTail {
		return "", nil, &OpsError{Kind: WrongNumberOfArgs, Req: 1 + minTail, Given: len(args)}
	}
	key, err := reqBytes(args[0])
	if err != nil {
		return "", nil, err
	}
	tail := make([]string, len(args)-1)
	for i, a := range args[1:] {
		s, err := reqBytes(a)
		if err != nil {
			return "", nil, err
		}
		tail[i] = s
	}
	return key, tail, nil
}

func destAndKeys(cmd string, args []resp.Value) (string, []string, error) {
	if len(args) < 3 {
		return "", nil, &OpsError{Kind: WrongNumberOfArgs, Req: 3, Given: len(args)}
	}
	dest, err := reqBytes(args[0])
	if err != nil {
		return "", nil, err
	}
	keys := make([]string, len(args)-1)
	for i, a := range args[1:] {
		s, err := reqBytes(a)
		if err != nil {
			return "", nil, err
		}
		keys[i] = s
	}
	return dest, keys, nil
}

func keyAndOptionalCount(cmd string, args []resp.Value) (key string, count int64, has bool, err error) {
	if len(args) < 1 || len(args) > 2 {
		return "", 0, false, &OpsError{Kind: WrongNumberOfArgs, Req: 1, Given: len(args)}
	}
	key, err = reqBytes(args[0])
	if err != nil {
		return "", 0, false, err
	}
	if len(args) == 2 {
		count, err = reqCount(args[1])
		if err != nil {
			return "", 0, false, err
		}
		has = true
	}
	return key, count, has, nil
}

func keyAndIndex(cmd string, args []resp.Value) (string, int64, error) {
	if len(args) != 2 {
		return "", 0, &OpsError{Kind: WrongNumberOfArgs, Req: 2, Given: len(args)}
	}
	key, err := reqBytes(args[0])
	if err != nil {
		return "", 0, err
	}
	idx, err := reqCount(args[1])
	if err != nil {
		return "", 0, err
	}
	return key, idx, nil
}

func keyAndField(cmd string, args []resp.Value) (string, string, error) {
	if len(args) != 2 {
		return "", "", &OpsError{Kind: WrongNumberOfArgs, Req: 2, Given: len(args)}
	}
	key, err := reqBytes(args[0])
	if err != nil {
		return "", "", err
	}
	field, err := reqBytes(args[1])
	if err != nil {
		return "", "", err
	}
	return key, field, nil
}

// keyValuePairs requires an even-length tail and coerces it into KV
// pairs, matching ensure_even + get_key_value_pairs.
func keyValuePairs(args []resp.Value) ([]KV, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, &OpsError{Kind: InvalidArgPattern, Msg: "even number of arguments required!"}
	}
	pairs := make([]KV, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		k, err := reqBytes(args[i])
		if err != nil {
			return nil, err
		}
		v, err := reqBytes(args[i+1])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, KV{Key: k, Value: v})
	}
	return pairs, nil
}

// scoreMemberPairs requires an even-length (score, member)+ tail.
func scoreMemberPairs(args []resp.Value) ([]ScoreMember, error) {
	if len(args)%2 != 0 {
		return nil, &OpsError{Kind: InvalidArgPattern, Msg: "even number of arguments required!"}
	}
	pairs := make([]ScoreMember, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		score, err := reqCount(args[i])
		if err != nil {
			return nil, err
		}
		member, err := reqBytes(args[i+1])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ScoreMember{Score: score, Member: member})
	}
	return pairs, nil
}
