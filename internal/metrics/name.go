package metrics

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// MaxLabels is the fixed number of label slots on every metric identity.
// Slot order is significant: no canonicalization is performed, so callers
// must populate labels in a consistent order for a given metric key.
const MaxLabels = 5

type labelSlot struct {
	name  string
	value LabelValue
}

// Name is a borrowed metric identity: a static key plus up to MaxLabels
// (label name, label value) pairs where the values are references owned by
// the caller. It is the lookup form: cheap to build on the stack, never
// retained by the store. An empty slot has a nil value.
type Name struct {
	key    string
	labels [MaxLabels]labelSlot
}

// NewName builds an identity with all label slots empty.
func NewName(key string) Name {
	return Name{key: key}
}

// NameWith1 builds an identity with slot 0 populated and the rest empty.
// The value reference must outlive the call it is passed to.
func NameWith1(key, labelName string, value LabelValue) Name {
	n := Name{key: key}
	n.labels[0] = labelSlot{name: labelName, value: value}
	return n
}

// Key returns the metric key.
func (n *Name) Key() string { return n.key }

// hashInto writes the identity into d using the shared hash protocol:
// key bytes, then per populated slot the label name bytes followed by the
// label surrogate as 8 bytes. OwnedName.hashInto must stay byte-for-byte
// consistent with this.
func (n *Name) hashInto(d *xxhash.Digest) {
	var buf [8]byte
	_, _ = d.WriteString(n.key)
	for i := range n.labels {
		s := &n.labels[i]
		if s.value == nil {
			continue
		}
		_, _ = d.WriteString(s.name)
		binary.LittleEndian.PutUint64(buf[:], s.value.Surrogate())
		_, _ = d.Write(buf[:])
	}
}

// toOwned converts a borrowed identity into an owned one, computing each
// populated label's surrogate once and cloning its value. This sits on the
// insertion-only path and is the only allocation point for a new identity.
func (n *Name) toOwned() OwnedName {
	o := OwnedName{key: n.key}
	for i := range n.labels {
		s := &n.labels[i]
		if s.value == nil {
			continue
		}
		o.labels[i] = ownedLabel{
			name:      s.name,
			surrogate: s.value.Surrogate(),
			value:     s.value.Clone(),
		}
	}
	return o
}

type ownedLabel struct {
	name      string
	surrogate uint64
	value     LabelValue
}

// OwnedName is the stored form of a metric identity. Each populated slot
// carries the label surrogate captured at conversion time plus an owned clone
// of the value. The clone is kept for display only; hashing and equality use
// the surrogate exclusively.
type OwnedName struct {
	key    string
	labels [MaxLabels]ownedLabel
}

// Key returns the metric key.
func (o *OwnedName) Key() string { return o.key }

// hashInto must stay consistent with Name.hashInto so that a borrowed lookup
// key can probe a map of owned keys by hash.
func (o *OwnedName) hashInto(d *xxhash.Digest) {
	var buf [8]byte
	_, _ = d.WriteString(o.key)
	for i := range o.labels {
		s := &o.labels[i]
		if s.value == nil {
			continue
		}
		_, _ = d.WriteString(s.name)
		binary.LittleEndian.PutUint64(buf[:], s.surrogate)
		_, _ = d.Write(buf[:])
	}
}

// matchesBorrowed reports whether o addresses the same counter as n.
//
// Equality is weak: label names and numeric surrogates only, so the owned
// display value is never walked. This assumes cooperating LabelValue
// implementations; see the LabelValue contract.
func (o *OwnedName) matchesBorrowed(n *Name) bool {
	if o.key != n.key {
		return false
	}
	for i := range o.labels {
		a, b := &o.labels[i], &n.labels[i]
		switch {
		case a.value == nil && b.value == nil:
		case a.value != nil && b.value != nil:
			if a.name != b.name || a.surrogate != b.value.Surrogate() {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// matchesOwned is the owned/owned form of the same weak equality, used when
// merging one store into another.
func (o *OwnedName) matchesOwned(other *OwnedName) bool {
	if o.key != other.key {
		return false
	}
	for i := range o.labels {
		a, b := &o.labels[i], &other.labels[i]
		switch {
		case a.value == nil && b.value == nil:
		case a.value != nil && b.value != nil:
			if a.name != b.name || a.surrogate != b.surrogate {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// String renders the identity as key{label=value,...} using display forms.
// Reporting only; never used for equality.
func (o *OwnedName) String() string {
	var sb strings.Builder
	sb.WriteString(o.key)
	wrote := false
	for i := range o.labels {
		s := &o.labels[i]
		if s.value == nil {
			continue
		}
		if !wrote {
			sb.WriteByte('{')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(s.name)
		sb.WriteByte('=')
		sb.WriteString(s.value.String())
		wrote = true
	}
	if wrote {
		sb.WriteByte('}')
	}
	return sb.String()
}
