package rng

import "testing"

func TestPartitionedRNG_SameSubsystemReturnsSameInstance(t *testing.T) {
	r := NewPartitionedRNG(42)
	a := r.ForSubsystem(SubsystemRuin)
	b := r.ForSubsystem(SubsystemRuin)
	if a != b {
		t.Error("ForSubsystem should return same instance on repeated calls")
	}
}

func TestPartitionedRNG_DifferentSubsystemsDiverge(t *testing.T) {
	r := NewPartitionedRNG(42)
	ruin := r.ForSubsystem(SubsystemRuin).Int63()
	recreate := r.ForSubsystem(SubsystemRecreate).Int63()
	if ruin == recreate {
		t.Error("distinct subsystems should not draw identical streams")
	}
}

func TestPartitionedRNG_OrderIndependent(t *testing.T) {
	a := NewPartitionedRNG(7)
	_ = a.ForSubsystem(SubsystemRecreate)
	wantRuin := a.ForSubsystem(SubsystemRuin).Int63()

	b := NewPartitionedRNG(7)
	gotRuin := b.ForSubsystem(SubsystemRuin).Int63()

	if wantRuin != gotRuin {
		t.Error("subsystem seed derivation must not depend on touch order")
	}
}

func TestJobNoiser_DeterministicAcrossOrder(t *testing.T) {
	r := NewPartitionedRNG(99)
	first := r.JobNoiser(3, "job-42").Float64()

	r2 := NewPartitionedRNG(99)
	// Touch a different job first to simulate out-of-order parallel eval.
	_ = r2.JobNoiser(3, "job-1").Float64()
	second := r2.JobNoiser(3, "job-42").Float64()

	if first != second {
		t.Error("job noise must be reproducible regardless of evaluation order")
	}
}

func TestJobNoiser_DiffersByIteration(t *testing.T) {
	r := NewPartitionedRNG(1)
	a := r.JobNoiser(1, "job-1").Float64()
	b := r.JobNoiser(2, "job-1").Float64()
	if a == b {
		t.Error("noise should vary across iterations for the same job")
	}
}

func TestTabuRing_ExpiresAfterWindow(t *testing.T) {
	ring := NewTabuRing(4, 3)
	pair := StrategyPair{Ruin: "random", Recreate: "best-insertion"}
	ring.Push(pair, 10)

	if !ring.IsTabu(pair, 11) {
		t.Error("pair should be tabu immediately after push")
	}
	if ring.IsTabu(pair, 13) {
		t.Error("pair should have expired by iteration 13")
	}
}

func TestTabuRing_EvictsOldestWhenFull(t *testing.T) {
	ring := NewTabuRing(2, 1000)
	p1 := StrategyPair{Ruin: "a", Recreate: "x"}
	p2 := StrategyPair{Ruin: "b", Recreate: "y"}
	p3 := StrategyPair{Ruin: "c", Recreate: "z"}

	ring.Push(p1, 0)
	ring.Push(p2, 1)
	ring.Push(p3, 2)

	if ring.IsTabu(p1, 2) {
		t.Error("oldest entry should have been evicted to bound capacity")
	}
	if !ring.IsTabu(p2, 2) || !ring.IsTabu(p3, 2) {
		t.Error("most recent entries should remain tabu")
	}
}

func TestTabuRing_Clear(t *testing.T) {
	ring := NewTabuRing(4, 1000)
	pair := StrategyPair{Ruin: "a", Recreate: "x"}
	ring.Push(pair, 0)
	ring.Clear()
	if ring.IsTabu(pair, 0) {
		t.Error("cleared ring must not report any pair as tabu")
	}
}
