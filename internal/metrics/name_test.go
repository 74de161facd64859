package metrics

import (
	"testing"

	"github.com/cespare/xxhash/v2"
)

// testHost mirrors the destination label used by the synthetic workloads.
type testHost uint8

const (
	hostH1 testHost = iota
	hostH2
	hostH3
)

func (h testHost) Surrogate() uint64 { return uint64(h) }

func (h testHost) String() string {
	switch h {
	case hostH1:
		return "H1"
	case hostH2:
		return "H2"
	default:
		return "H3"
	}
}

func (h testHost) Clone() LabelValue { return h }

// collidingLabel always reports the same surrogate regardless of its display
// form, simulating a non-cooperating LabelValue implementation.
type collidingLabel string

func (c collidingLabel) Surrogate() uint64 { return 42 }
func (c collidingLabel) String() string    { return string(c) }
func (c collidingLabel) Clone() LabelValue { return c }

func hashWithSeed(seed uint64, h interface{ hashInto(*xxhash.Digest) }) uint64 {
	var d xxhash.Digest
	d.ResetWithSeed(seed)
	h.hashInto(&d)
	return d.Sum64()
}

func TestHashConsistency_BorrowedVsOwned(t *testing.T) {
	cases := []Name{
		NewName("foo"),
		NameWith1("foo", "dest", hostH1),
		NameWith1("foo", "dest", hostH3),
		NameWith1("requests.total", "dest", hostH2),
	}

	for _, n := range cases {
		owned := n.toOwned()
		for _, seed := range []uint64{0, 1, 0xdeadbeef, nextSeed()} {
			hb := hashWithSeed(seed, &n)
			ho := hashWithSeed(seed, &owned)
			if hb != ho {
				t.Errorf("hash(%s) seed=%#x: borrowed=%#x owned=%#x, want equal", owned.String(), seed, hb, ho)
			}
		}
	}
}

func TestHashDistinguishesIdentities(t *testing.T) {
	a := NewName("foo")
	b := NewName("bar")
	c := NameWith1("foo", "dest", hostH1)
	d := NameWith1("foo", "dest", hostH2)
	e := NameWith1("foo", "src", hostH1)

	names := []*Name{&a, &b, &c, &d, &e}
	seen := make(map[uint64]*Name)
	for _, n := range names {
		h := hashWithSeed(7, n)
		if prev, ok := seen[h]; ok {
			t.Errorf("hash collision between %q and %q", prev.Key(), n.Key())
		}
		seen[h] = n
	}
}

func TestWeakEquality(t *testing.T) {
	n1 := NameWith1("foo", "dest", hostH1)
	n2 := NameWith1("foo", "dest", hostH2)
	n3 := NewName("foo")

	o1 := n1.toOwned()
	if !o1.matchesBorrowed(&n1) {
		t.Error("owned identity does not match its borrowed equivalent")
	}
	if o1.matchesBorrowed(&n2) {
		t.Error("matched despite differing label surrogates")
	}
	if o1.matchesBorrowed(&n3) {
		t.Error("labeled identity matched unlabeled one")
	}

	o2 := n2.toOwned()
	if o1.matchesOwned(&o2) {
		t.Error("owned identities with different surrogates matched")
	}
	o1b := n1.toOwned()
	if !o1.matchesOwned(&o1b) {
		t.Error("equivalent owned identities did not match")
	}
}

// Equality deliberately ignores the display form: equal (name, surrogate)
// pairs compare equal even when the underlying values differ. This is the
// documented surrogate-collision trade-off, not a bug.
func TestWeakEquality_SurrogateCollisionConflates(t *testing.T) {
	n1 := NameWith1("foo", "dest", collidingLabel("alpha"))
	n2 := NameWith1("foo", "dest", collidingLabel("beta"))

	o := n1.toOwned()
	if !o.matchesBorrowed(&n2) {
		t.Error("colliding surrogates should compare equal under weak equality")
	}
}

func TestOwnedNameString(t *testing.T) {
	n := NameWith1("requests.total", "dest", hostH2)
	o := n.toOwned()
	if got, want := o.String(), "requests.total{dest=H2}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	nBare := NewName("foo")
	bare := nBare.toOwned()
	if got := bare.String(); got != "foo" {
		t.Errorf("String() = %q, want %q", got, "foo")
	}
}
