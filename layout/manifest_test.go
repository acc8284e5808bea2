package layout_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memwire/memwire/layout"
)

func buildManifest(t *testing.T) *layout.Manifest {
	t.Helper()

	manifest := layout.NewManifest()
	require.NoError(t, layout.AddType[wireMessageV1](manifest, "Message"))
	require.NoError(t, layout.AddType[header](manifest, "Header"))
	require.NoError(t, layout.AddType[[32]byte](manifest, "Digest"))

	return manifest
}

func TestManifestAddTypeRejectsUnsafeTypes(t *testing.T) {
	manifest := layout.NewManifest()

	err := layout.AddType[platformInt](manifest, "Broken")
	require.ErrorIs(t, err, layout.ErrArchDependentWidth)
	require.Empty(t, manifest.Names())
}

func TestManifestJSONRoundTrip(t *testing.T) {
	manifest := buildManifest(t)

	encoded, err := json.Marshal(manifest)
	require.NoError(t, err)

	decoded := layout.NewManifest()
	require.NoError(t, json.Unmarshal(encoded, decoded))

	require.Equal(t, []string{"Message", "Header", "Digest"}, decoded.Names())
	require.NoError(t, decoded.Verify())
	require.Empty(t, manifest.Compare(decoded))

	entry, exists := decoded.Entry("Header")
	require.True(t, exists)
	require.Equal(t, layout.KindRecord, entry.Layout.Kind)
	require.Equal(t, mustDescribe[header](t).Fingerprint().String(), entry.Fingerprint)
}

func TestManifestUnmarshalRejectsIncompleteEntries(t *testing.T) {
	validFingerprint := mustDescribe[uint32](t).Fingerprint().String()

	type test struct {
		name    string
		input   string
		wantErr error
	}

	tests := []test{
		{
			name:    "err - null layout",
			input:   `{"Message":{"fingerprint":"` + validFingerprint + `","layout":null}}`,
			wantErr: layout.ErrMissingLayout,
		},
		{
			name:    "err - missing layout key",
			input:   `{"Message":{"fingerprint":"` + validFingerprint + `"}}`,
			wantErr: layout.ErrMissingLayout,
		},
		{
			name:    "err - missing fingerprint",
			input:   `{"Message":{"layout":{"kind":"uint","size":4,"bits":32}}}`,
			wantErr: layout.ErrMissingFingerprint,
		},
		{
			name:    "err - unknown descriptor kind",
			input:   `{"Message":{"fingerprint":"` + validFingerprint + `","layout":{"kind":"quaternion","size":16}}}`,
			wantErr: layout.ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := layout.NewManifest()

			err := json.Unmarshal([]byte(tt.input), decoded)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorContains(t, err, "Message")
		})
	}
}

func TestManifestVerifyDetectsTampering(t *testing.T) {
	manifest := buildManifest(t)

	encoded, err := json.Marshal(manifest)
	require.NoError(t, err)

	honest, _ := manifest.Entry("Digest")
	tampered := strings.Replace(string(encoded), honest.Fingerprint,
		mustDescribe[uint64](t).Fingerprint().String(), 1)

	decoded := layout.NewManifest()
	require.NoError(t, json.Unmarshal([]byte(tampered), decoded))
	require.Error(t, decoded.Verify())
}

func TestManifestCompare(t *testing.T) {
	first := layout.NewManifest()
	require.NoError(t, layout.AddType[wireMessageV1](first, "Message"))
	require.NoError(t, layout.AddType[header](first, "Header"))
	require.NoError(t, layout.AddType[[32]byte](first, "Digest"))

	second := layout.NewManifest()
	require.NoError(t, layout.AddType[wireMessageV2](second, "Message"))
	require.NoError(t, layout.AddType[header](second, "Header"))
	require.NoError(t, layout.AddType[uint64](second, "Counter"))

	mismatches := first.Compare(second)
	require.Len(t, mismatches, 3)

	byName := map[string]string{}
	for _, mismatch := range mismatches {
		byName[mismatch.Name] = mismatch.Reason
	}

	require.Contains(t, byName, "Message")
	require.Contains(t, byName["Message"], "size 16 vs 24")
	require.Contains(t, byName, "Digest")
	require.Contains(t, byName["Digest"], "missing from second manifest")
	require.Contains(t, byName, "Counter")
	require.Contains(t, byName["Counter"], "missing from first manifest")
}

func TestManifestCompareNamesFirstDifference(t *testing.T) {
	first := layout.NewManifest()
	require.NoError(t, layout.AddType[uint32](first, "Value"))

	second := layout.NewManifest()
	require.NoError(t, layout.AddType[uint64](second, "Value"))

	mismatches := first.Compare(second)
	require.Len(t, mismatches, 1)
	require.Equal(t, "Value", mismatches[0].Name)
	require.Contains(t, mismatches[0].Reason, "size 4 vs 8")
}
