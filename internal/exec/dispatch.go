// Package exec implements one executor per data-type group; each
// consumes an ops.Op and the state it targets and produces a
// store.ReturnValue. Dispatch is the single entry point the connection
// handler calls after translation.
package exec

import (
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/store"
)

// Execute runs op against st, with access to ss for the handful of
// operations (FLUSHALL) that span every database.
func Execute(op ops.Op, st *store.State, ss *store.StateStore) store.ReturnValue {
	switch op.Kind {
	case ops.KindPing, ops.KindFlushAll, ops.KindFlushDB, ops.KindKeysList,
		ops.KindExists, ops.KindPrintCmds:
		return execMisc(op, st, ss)

	case ops.KindGet, ops.KindSet, ops.KindMGet, ops.KindMSet, ops.KindDel,
		ops.KindRename, ops.KindRenameNX:
		return execKeys(op, st)

	case ops.KindSAdd, ops.KindSRem, ops.KindSMembers, ops.KindSCard,
		ops.KindSDiff, ops.KindSUnion, ops.KindSInter,
		ops.KindSDiffStore, ops.KindSUnionStore, ops.KindSInterStore,
		ops.KindSPop, ops.KindSIsMember, ops.KindSMove, ops.KindSRandMember:
		return execSets(op, st)

	case ops.KindLPush, ops.KindRPush, ops.KindLPushX, ops.KindRPushX,
		ops.KindLLen, ops.KindLPop, ops.KindRPop, ops.KindLIndex, ops.KindLSet,
		ops.KindBLPop, ops.KindBRPop:
		return execLists(op, st)

	case ops.KindHGet, ops.KindHSet, ops.KindHExists, ops.KindHGetAll,
		ops.KindHMGet, ops.KindHKeys, ops.KindHMSet, ops.KindHLen, ops.KindHDel:
		return execHashes(op, st)

	case ops.KindZAdd, ops.KindZRem, ops.KindZRange:
		return execZSets(op, st)

	case ops.KindBInsert, ops.KindBContains:
		return execBloom(op, st)

	case ops.KindPFAdd:
		return execHyperLogLog(op, st)

	case ops.KindSTPush, ops.KindSTPop, ops.KindSTPeek, ops.KindSTLen:
		return execStacks(op, st)

	default:
		return store.Err("Unknown Operation!")
	}
}
