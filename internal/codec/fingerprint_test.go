package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Known(t *testing.T) {
	fp, err := Fingerprint(threeNodes())
	require.NoError(t, err)
	assert.Equal(t, "501e2bc011a824d36f508e43b475cfce212154c4749074c6aedac7efaccf89e1", fp)
}

func TestFingerprint_IndependentOfEncoding(t *testing.T) {
	want, err := Fingerprint(threeNodes())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, YAML, threeNodes()))
	nodes, err := Decode(&buf, YAML)
	require.NoError(t, err)

	got, err := Fingerprint(nodes)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFingerprint_ChildOrderMatters(t *testing.T) {
	a, err := Fingerprint(threeNodes())
	require.NoError(t, err)

	swapped := threeNodes()
	swapped[0].Children = []string{"2", "1"}
	b, err := Fingerprint(swapped)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, b, 64)
}
