// Package snapshot serializes and deserializes a store.StateStore to
// and from a single self-describing binary image, reusing the RESP
// grammar the connection handler already speaks on the wire (see
// DESIGN.md for why this was chosen over an Avro/MessagePack
// schema-based serializer).
package snapshot

import (
	"fmt"

	"github.com/ccresp/respd/internal/resp"
	"github.com/ccresp/respd/internal/store"
)

// formatVersion guards against decoding an image from an incompatible
// future layout; bumped whenever the group order or per-entry shape
// below changes.
const formatVersion = 1

// Encode renders every materialized database in ss into one RESP value:
// an Array of [version, Array of per-database entries].
func Encode(ss *store.StateStore) resp.Value {
	var dbs []resp.Value
	for _, idx := range ss.Indices() {
		dbs = append(dbs, encodeDB(idx, ss.DB(idx)))
	}
	return resp.ArrayValue([]resp.Value{
		resp.IntegerValue(formatVersion),
		resp.ArrayValue(dbs),
	})
}

func encodeDB(idx store.Index, st *store.State) resp.Value {
	return resp.ArrayValue([]resp.Value{
		resp.IntegerValue(idx),
		encodeKV(st.KV),
		encodeSets(st.Sets),
		encodeLists(st.Lists),
		encodeHashes(st.Hashes),
		encodeZSets(st.ZSets),
		encodeStacks(st.Stacks),
		encodeBlooms(st.Blooms),
		encodeHyperLogLogs(st.HyperLogLogs),
	})
}

func bulk(s string) resp.Value { return resp.BulkStringValue([]byte(s)) }

func encodeKV(m *store.ShardedMap[store.Value]) resp.Value {
	var entries []resp.Value
	m.Each(func(k store.Key, v store.Value) {
		entries = append(entries, resp.ArrayValue([]resp.Value{bulk(k), bulk(v)}))
	})
	return resp.ArrayValue(entries)
}

func encodeSets(m *store.ShardedMap[*store.Set]) resp.Value {
	var entries []resp.Value
	m.Each(func(k store.Key, s *store.Set) {
		members := s.Members()
		vals := make([]resp.Value, len(members))
		for i, v := range members {
			vals[i] = bulk(v)
		}
		entries = append(entries, resp.ArrayValue([]resp.Value{bulk(k), resp.ArrayValue(vals)}))
	})
	return resp.ArrayValue(entries)
}

func encodeLists(m *store.ShardedMap[*store.List]) resp.Value {
	var entries []resp.Value
	m.Each(func(k store.Key, l *store.List) {
		items := l.Items()
		vals := make([]resp.Value, len(items))
		for i, v := range items {
			vals[i] = bulk(v)
		}
		entries = append(entries, resp.ArrayValue([]resp.Value{bulk(k), resp.ArrayValue(vals)}))
	})
	return resp.ArrayValue(entries)
}

func encodeHashes(m *store.ShardedMap[*store.Hash]) resp.Value {
	var entries []resp.Value
	m.Each(func(k store.Key, h *store.Hash) {
		all := h.All()
		vals := make([]resp.Value, 0, len(all)*2)
		for f, v := range all {
			vals = append(vals, bulk(f), bulk(v))
		}
		entries = append(entries, resp.ArrayValue([]resp.Value{bulk(k), resp.ArrayValue(vals)}))
	})
	return resp.ArrayValue(entries)
}

func encodeZSets(m *store.ShardedMap[*store.SortedSet]) resp.Value {
	var entries []resp.Value
	m.Each(func(k store.Key, z *store.SortedSet) {
		zentries := z.Entries()
		vals := make([]resp.Value, len(zentries))
		for i, e := range zentries {
			vals[i] = resp.ArrayValue([]resp.Value{bulk(e.Member), resp.IntegerValue(e.Score)})
		}
		entries = append(entries, resp.ArrayValue([]resp.Value{bulk(k), resp.ArrayValue(vals)}))
	})
	return resp.ArrayValue(entries)
}

func encodeStacks(m *store.ShardedMap[*store.Stack]) resp.Value {
	var entries []resp.Value
	m.Each(func(k store.Key, s *store.Stack) {
		items := s.Items()
		vals := make([]resp.Value, len(items))
		for i, v := range items {
			vals[i] = bulk(v)
		}
		entries = append(entries, resp.ArrayValue([]resp.Value{bulk(k), resp.ArrayValue(vals)}))
	})
	return resp.ArrayValue(entries)
}

func encodeBlooms(m *store.ShardedMap[*store.Bloom]) resp.Value {
	var entries []resp.Value
	m.Each(func(k store.Key, b *store.Bloom) {
		bits, kHashes := b.Snapshot()
		raw := make([]byte, len(bits))
		for i, set := range bits {
			if set {
				raw[i] = 1
			}
		}
		entries = append(entries, resp.ArrayValue([]resp.Value{
			bulk(k),
			resp.IntegerValue(int64(kHashes)),
			resp.BulkStringValue(raw),
		}))
	})
	return resp.ArrayValue(entries)
}

func encodeHyperLogLogs(m *store.ShardedMap[*store.HyperLogLog]) resp.Value {
	var entries []resp.Value
	m.Each(func(k store.Key, h *store.HyperLogLog) {
		registers, p := h.Snapshot()
		entries = append(entries, resp.ArrayValue([]resp.Value{
			bulk(k),
			resp.IntegerValue(int64(p)),
			resp.BulkStringValue(registers),
		}))
	})
	return resp.ArrayValue(entries)
}

// Decode rebuilds a StateStore from an image produced by Encode,
// overlaying commandsThreshold/memoryOnly from the live configuration
// rather than whatever was active when the image was written.
func Decode(v resp.Value, commandsThreshold uint64, memoryOnly bool) (*store.StateStore, error) {
	if v.Type != resp.Array_ || len(v.Array) != 2 {
		return nil, fmt.Errorf("snapshot: malformed top-level image")
	}
	if v.Array[0].Type != resp.Integer || v.Array[0].Int != formatVersion {
		return nil, fmt.Errorf("snapshot: unsupported format version %d", v.Array[0].Int)
	}
	if v.Array[1].Type != resp.Array_ {
		return nil, fmt.Errorf("snapshot: malformed database list")
	}

	ss := store.New(commandsThreshold, memoryOnly)
	for _, dbVal := range v.Array[1].Array {
		if err := decodeDB(ss, dbVal); err != nil {
			return nil, err
		}
	}
	return ss, nil
}

func decodeDB(ss *store.StateStore, v resp.Value) error {
	if v.Type != resp.Array_ || len(v.Array) != 9 {
		return fmt.Errorf("snapshot: malformed database entry")
	}
	if v.Array[0].Type != resp.Integer {
		return fmt.Errorf("snapshot: database index is not an integer")
	}
	st := ss.DB(v.Array[0].Int)

	if err := decodeKV(st, v.Array[1]); err != nil {
		return err
	}
	if err := decodeSets(st, v.Array[2]); err != nil {
		return err
	}
	if err := decodeLists(st, v.Array[3]); err != nil {
		return err
	}
	if err := decodeHashes(st, v.Array[4]); err != nil {
		return err
	}
	if err := decodeZSets(st, v.Array[5]); err != nil {
		return err
	}
	if err := decodeStacks(st, v.Array[6]); err != nil {
		return err
	}
	if err := decodeBlooms(st, v.Array[7]); err != nil {
		return err
	}
	return decodeHyperLogLogs(st, v.Array[8])
}

func decodeKV(st *store.State, v resp.Value) error {
	for _, entry := range v.Array {
		if len(entry.Array) != 2 {
			return fmt.Errorf("snapshot: malformed kv entry")
		}
		st.KV.Set(string(entry.Array[0].Str), string(entry.Array[1].Str))
	}
	return nil
}

func decodeSets(st *store.State, v resp.Value) error {
	for _, entry := range v.Array {
		if len(entry.Array) != 2 {
			return fmt.Errorf("snapshot: malformed set entry")
		}
		key := string(entry.Array[0].Str)
		s := st.GetSet(key)
		for _, m := range entry.Array[1].Array {
			s.Add(string(m.Str))
		}
	}
	return nil
}

func decodeLists(st *store.State, v resp.Value) error {
	for _, entry := range v.Array {
		if len(entry.Array) != 2 {
			return fmt.Errorf("snapshot: malformed list entry")
		}
		key := string(entry.Array[0].Str)
		l := st.GetList(key)
		for _, item := range entry.Array[1].Array {
			l.PushRight(string(item.Str))
		}
	}
	return nil
}

func decodeHashes(st *store.State, v resp.Value) error {
	for _, entry := range v.Array {
		if len(entry.Array) != 2 {
			return fmt.Errorf("snapshot: malformed hash entry")
		}
		key := string(entry.Array[0].Str)
		h := st.GetHash(key)
		fields := entry.Array[1].Array
		for i := 0; i+1 < len(fields); i += 2 {
			h.Set(string(fields[i].Str), string(fields[i+1].Str))
		}
	}
	return nil
}

func decodeZSets(st *store.State, v resp.Value) error {
	for _, entry := range v.Array {
		if len(entry.Array) != 2 {
			return fmt.Errorf("snapshot: malformed zset entry")
		}
		key := string(entry.Array[0].Str)
		z := st.GetZSet(key)
		for _, pair := range entry.Array[1].Array {
			if len(pair.Array) != 2 {
				return fmt.Errorf("snapshot: malformed zset member")
			}
			z.Add(pair.Array[1].Int, string(pair.Array[0].Str))
		}
	}
	return nil
}

func decodeStacks(st *store.State, v resp.Value) error {
	for _, entry := range v.Array {
		if len(entry.Array) != 2 {
			return fmt.Errorf("snapshot: malformed stack entry")
		}
		key := string(entry.Array[0].Str)
		s := st.GetStack(key)
		for _, item := range entry.Array[1].Array {
			s.Push(string(item.Str))
		}
	}
	return nil
}

func decodeBlooms(st *store.State, v resp.Value) error {
	for _, entry := range v.Array {
		if len(entry.Array) != 3 {
			return fmt.Errorf("snapshot: malformed bloom entry")
		}
		key := string(entry.Array[0].Str)
		kHashes := int(entry.Array[1].Int)
		raw := entry.Array[2].Str
		bits := make([]bool, len(raw))
		for i, b := range raw {
			bits[i] = b != 0
		}
		st.Blooms.Set(key, store.RestoreBloom(bits, kHashes))
	}
	return nil
}

func decodeHyperLogLogs(st *store.State, v resp.Value) error {
	for _, entry := range v.Array {
		if len(entry.Array) != 3 {
			return fmt.Errorf("snapshot: malformed hyperloglog entry")
		}
		key := string(entry.Array[0].Str)
		p := uint(entry.Array[1].Int)
		registers := append([]byte(nil), entry.Array[2].Str...)
		st.HyperLogLogs.Set(key, store.RestoreHyperLogLog(registers, p))
	}
	return nil
}
