package layout

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/memwire/memwire/byteutils"
)

// FingerprintLength is the byte length of a layout fingerprint.
const FingerprintLength = blake2b.Size256

// fingerprintPrefix is mixed into every digest so that fingerprints from
// incompatible canonical-encoding revisions can never collide.
var fingerprintPrefix = []byte("memwire/layout/v1")

// Fingerprint is the blake2b-256 digest of a descriptor's canonical encoding.
// Two independently compiled programs whose types produce the same fingerprint
// agree on the exact byte representation, so exchanging fingerprints is the
// handshake that makes exchanging raw bytes sound. The fingerprint is purely
// structural: type and field names do not participate.
type Fingerprint [FingerprintLength]byte

// Fingerprint computes the layout fingerprint of the described type.
func (d *Descriptor) Fingerprint() Fingerprint {
	return Fingerprint(blake2b.Sum256(byteutils.Concat(fingerprintPrefix, d.appendCanonical(nil))))
}

// appendCanonical appends the canonical binary encoding of the descriptor.
// The encoding is fixed little-endian and does not include names, so it is
// itself architecture- and build-independent.
func (d *Descriptor) appendCanonical(buf []byte) []byte {
	buf = append(buf, byte(d.Kind))

	switch d.Kind {
	case KindBool:
		// kind alone identifies the representation

	case KindInt, KindUint, KindFloat:
		buf = append(buf, byte(d.Bits))

	case KindArray:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(d.Len))
		buf = d.Elem.appendCanonical(buf)

	case KindRecord:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(d.Fields)))
		for _, field := range d.Fields {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(field.Offset))
			buf = field.Type.appendCanonical(buf)
		}
	}

	return buf
}

// String returns the base58 rendering of the fingerprint.
func (f Fingerprint) String() string {
	return base58.Encode(f[:])
}

// ParseFingerprint parses the base58 rendering produced by String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fingerprint Fingerprint

	decoded, err := base58.Decode(s)
	if err != nil {
		return fingerprint, errors.Wrap(err, "failed to decode fingerprint")
	}
	if len(decoded) != FingerprintLength {
		return fingerprint, errors.Newf("invalid fingerprint length: %d instead of %d", len(decoded), FingerprintLength)
	}
	copy(fingerprint[:], decoded)

	return fingerprint, nil
}
