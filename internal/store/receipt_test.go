package store

import "testing"

func TestReceiptMapWakeAll(t *testing.T) {
	rm := NewReceiptMap()
	key := ListKeyType("mylist")

	woken := 0
	r1 := rm.GetReceipt()
	rm.Insert(r1, func() { woken++ }, key)
	r2 := rm.GetReceipt()
	rm.Insert(r2, func() { woken++ }, key)

	rm.WakeAll(key)
	if woken != 2 {
		t.Fatalf("woken = %d, want 2", woken)
	}

	// Waking again should be a no-op: receipts were removed from the
	// live mapping on the first wake.
	rm.WakeAll(key)
	if woken != 2 {
		t.Fatalf("woken after second WakeAll = %d, want 2", woken)
	}
}

func TestReceiptMapTimedOut(t *testing.T) {
	rm := NewReceiptMap()
	r := rm.GetReceipt()
	rm.Insert(r, func() {}, ListKeyType("k"))

	if rm.IsTimedOut(r) {
		t.Fatal("receipt reported timed out before TimedOut was called")
	}
	if !rm.TimedOut(r) {
		t.Fatal("TimedOut on a live receipt returned false")
	}
	if !rm.IsTimedOut(r) {
		t.Fatal("IsTimedOut false after TimedOut")
	}
}

func TestReceiptMapMonotonicCounter(t *testing.T) {
	rm := NewReceiptMap()
	prev := rm.GetReceipt()
	for i := 0; i < 10; i++ {
		next := rm.GetReceipt()
		if next <= prev {
			t.Fatalf("receipt counter not monotonic: %d then %d", prev, next)
		}
		prev = next
	}
}
