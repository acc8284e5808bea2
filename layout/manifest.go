package layout

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/orderedmap"
)

// ManifestEntry is one named type inside a manifest.
type ManifestEntry struct {
	// Fingerprint is the base58 layout fingerprint of the type.
	Fingerprint string `json:"fingerprint"`
	// Layout is the full descriptor, kept for human-readable diffing.
	Layout *Descriptor `json:"layout"`
}

// Manifest is a named collection of layout descriptors. A program dumps a
// manifest of the types it puts on the wire; a peer (or CI) compares it
// against its own to prove both sides agree before any bytes are exchanged.
// Entries keep their insertion order through JSON round-trips.
type Manifest struct {
	entries *orderedmap.OrderedMap
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: orderedmap.New(),
	}
}

// Add records the descriptor under the given name, replacing any previous
// entry with that name.
func (m *Manifest) Add(name string, desc *Descriptor) {
	m.entries.Set(name, &ManifestEntry{
		Fingerprint: desc.Fingerprint().String(),
		Layout:      desc,
	})
}

// AddType runs the layout checker on T and records the resulting descriptor
// under the given name.
func AddType[T any](m *Manifest, name string) error {
	desc, err := Describe[T]()
	if err != nil {
		return errors.Wrapf(err, "failed to add %s to manifest", name)
	}
	m.Add(name, desc)

	return nil
}

// Entry returns the entry registered under the given name.
func (m *Manifest) Entry(name string) (*ManifestEntry, bool) {
	value, exists := m.entries.Get(name)
	if !exists {
		return nil, false
	}

	//nolint:forcetypeassert // only ManifestEntry values are ever stored
	return value.(*ManifestEntry), true
}

// Names returns the entry names in insertion order.
func (m *Manifest) Names() []string {
	return m.entries.Keys()
}

// MarshalJSON implements json.Marshaler.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.entries)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	decoded := orderedmap.New()
	if err := json.Unmarshal(data, decoded); err != nil {
		return errors.Wrap(err, "failed to decode manifest")
	}

	// The ordered map decodes nested objects into its own generic type, so
	// every value takes a second decoding pass into a typed entry.
	entries := orderedmap.New()
	for _, name := range decoded.Keys() {
		value, _ := decoded.Get(name)

		rawEntry, err := json.Marshal(value)
		if err != nil {
			return errors.Wrapf(err, "failed to re-encode manifest entry %s", name)
		}

		entry := &ManifestEntry{}
		if err := json.Unmarshal(rawEntry, entry); err != nil {
			return errors.Wrapf(err, "failed to decode manifest entry %s", name)
		}

		// Verify and Compare walk the descriptor unconditionally, so a manifest
		// with the layout stripped out must be refused here, not crash later.
		if entry.Layout == nil {
			return errors.Wrapf(ErrMissingLayout, "manifest entry %s", name)
		}
		if entry.Fingerprint == "" {
			return errors.Wrapf(ErrMissingFingerprint, "manifest entry %s", name)
		}

		entries.Set(name, entry)
	}
	m.entries = entries

	return nil
}

// Verify checks every entry's stated fingerprint against the one recomputed
// from its descriptor, catching manifests that were edited or corrupted after
// being dumped.
func (m *Manifest) Verify() error {
	for _, name := range m.Names() {
		entry, _ := m.Entry(name)

		stated, err := ParseFingerprint(entry.Fingerprint)
		if err != nil {
			return errors.Wrapf(err, "entry %s", name)
		}

		if computed := entry.Layout.Fingerprint(); stated != computed {
			return errors.Newf("entry %s: stated fingerprint %s does not match layout (%s)", name, stated, computed)
		}
	}

	return nil
}

// Mismatch describes one incompatibility between two manifests.
type Mismatch struct {
	// Name is the entry name the mismatch was found under.
	Name string
	// Reason is a human-readable description of the first difference found.
	Reason string
}

// Compare reports every entry on which the two manifests disagree. Entries
// only one side knows are reported as well, since a type the peer cannot name
// is a type it cannot receive.
func (m *Manifest) Compare(other *Manifest) []Mismatch {
	var mismatches []Mismatch

	for _, name := range m.Names() {
		entry, _ := m.Entry(name)

		otherEntry, exists := other.Entry(name)
		if !exists {
			mismatches = append(mismatches, Mismatch{Name: name, Reason: "missing from second manifest"})
			continue
		}

		if entry.Fingerprint == otherEntry.Fingerprint {
			continue
		}

		mismatches = append(mismatches, Mismatch{
			Name:   name,
			Reason: diffDescriptors(entry.Layout, otherEntry.Layout),
		})
	}

	for _, name := range other.Names() {
		if _, exists := m.Entry(name); !exists {
			mismatches = append(mismatches, Mismatch{Name: name, Reason: "missing from first manifest"})
		}
	}

	return mismatches
}

// diffDescriptors names the first structural difference between two accepted
// descriptors. Both sides passed the checker, so the walk only has to compare
// shapes, never re-validate them.
func diffDescriptors(a, b *Descriptor) string {
	switch {
	case a.Kind != b.Kind:
		return "kind " + a.Kind.String() + " vs " + b.Kind.String()
	case a.Size != b.Size:
		return "size " + strconv.Itoa(a.Size) + " vs " + strconv.Itoa(b.Size) + " bytes"
	case a.Bits != b.Bits:
		return "width " + strconv.Itoa(a.Bits) + " vs " + strconv.Itoa(b.Bits) + " bits"
	case a.Len != b.Len:
		return "array length " + strconv.Itoa(a.Len) + " vs " + strconv.Itoa(b.Len)
	}

	if a.Kind == KindArray {
		if reason := diffDescriptors(a.Elem, b.Elem); reason != "" {
			return "array element: " + reason
		}

		return ""
	}

	if a.Kind == KindRecord {
		if len(a.Fields) != len(b.Fields) {
			return "field count " + strconv.Itoa(len(a.Fields)) + " vs " + strconv.Itoa(len(b.Fields))
		}
		for i := range a.Fields {
			if a.Fields[i].Offset != b.Fields[i].Offset {
				return "field " + a.Fields[i].Name + ": offset " + strconv.Itoa(a.Fields[i].Offset) + " vs " + strconv.Itoa(b.Fields[i].Offset)
			}
			if reason := diffDescriptors(a.Fields[i].Type, b.Fields[i].Type); reason != "" {
				return "field " + a.Fields[i].Name + ": " + reason
			}
		}
	}

	return ""
}
