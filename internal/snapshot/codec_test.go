package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccresp/respd/internal/store"
)

func buildPopulatedStore() *store.StateStore {
	ss := store.New(0, true)
	st := ss.DB(0)

	st.KV.Set("greeting", "hello")
	st.GetSet("tags").Add("a")
	st.GetSet("tags").Add("b")
	st.GetList("queue").PushRight("first")
	st.GetList("queue").PushRight("second")
	st.GetHash("profile").Set("name", "ada")
	st.GetHash("profile").Set("role", "engineer")
	st.GetZSet("leaderboard").Add(10, "alice")
	st.GetZSet("leaderboard").Add(20, "bob")
	st.GetStack("history").Push("one")
	st.GetStack("history").Push("two")

	other := ss.DB(3)
	other.KV.Set("isolated", "value")

	return ss
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	require := require.New(t)

	ss := buildPopulatedStore()
	v := Encode(ss)

	restored, err := Decode(v, 5000, false)
	require.NoError(err)

	st := restored.DB(0)
	greeting, ok := st.KV.Get("greeting")
	require.True(ok)
	require.Equal("hello", greeting)

	require.ElementsMatch([]string{"a", "b"}, st.GetSet("tags").Members())
	require.Equal([]string{"first", "second"}, st.GetList("queue").Items())
	require.Equal(map[string]string{"name": "ada", "role": "engineer"}, st.GetHash("profile").All())

	entries := st.GetZSet("leaderboard").Entries()
	require.Len(entries, 2)
	require.Equal("alice", entries[0].Member)
	require.Equal(int64(10), entries[0].Score)

	require.Equal([]string{"one", "two"}, st.GetStack("history").Items())

	otherKV, ok := restored.DB(3).KV.Get("isolated")
	require.True(ok)
	require.Equal("value", otherKV)

	require.Equal(uint64(5000), restored.CommandsThreshold)
}

func TestEncodeDecodeEmptyStoreRoundTrip(t *testing.T) {
	require := require.New(t)

	ss := store.New(10, false)
	restored, err := Decode(Encode(ss), 10, false)
	require.NoError(err)
	require.Empty(restored.Indices())
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	require := require.New(t)

	v := Encode(store.New(0, true))
	v.Array[0].Int = formatVersion + 1

	_, err := Decode(v, 0, true)
	require.Error(err)
}

func TestEncodeDecodeBloomAndHyperLogLogRoundTrip(t *testing.T) {
	require := require.New(t)

	ss := store.New(0, true)
	st := ss.DB(0)
	st.GetBloom("seen").Insert("x")
	st.GetBloom("seen").Insert("y")
	st.GetHyperLogLog("unique").Add("x")
	st.GetHyperLogLog("unique").Add("y")
	st.GetHyperLogLog("unique").Add("z")

	restored, err := Decode(Encode(ss), 0, true)
	require.NoError(err)

	rst := restored.DB(0)
	require.True(rst.GetBloom("seen").Contains("x"))
	require.True(rst.GetBloom("seen").Contains("y"))
	require.InDelta(3, rst.GetHyperLogLog("unique").Estimate(), 1)
}
