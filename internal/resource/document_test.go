package resource

import (
	"errors"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/clicktrans/internal/testutil/testlog"
)

const sampleDoc = `{
    "common": {"logout": "Abmelden", "count": 3, "flag": true, "empty": {}},
    "zeta": "ä ä <b>",
    "alpha": "Schritt {{n}} von {{total}}"
}`

func mustPath(t *testing.T, key string) KeyPath {
	t.Helper()
	p, err := ParseKeyPath(key)
	require.NoError(t, err)
	return p
}

func TestParseKeyPath(t *testing.T) {
	testlog.Start(t)
	p, err := ParseKeyPath("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, KeyPath{"a", "b", "c"}, p)
	assert.Equal(t, "a.b.c", p.String())

	_, err = ParseKeyPath("")
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = ParseKeyPath("a..b")
	assert.ErrorIs(t, err, ErrEmptySegment)
	_, err = ParseKeyPath(".a")
	assert.ErrorIs(t, err, ErrEmptySegment)
}

func TestResolveLeafValues(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseDocument("reviewed.json", "reviewed", []byte(sampleDoc))
	require.NoError(t, err)

	v, err := doc.Resolve(mustPath(t, "common.logout"))
	require.NoError(t, err)
	assert.Equal(t, jsonparser.String, v.Type)
	text, err := v.Text()
	require.NoError(t, err)
	assert.Equal(t, "Abmelden", text)

	v, err = doc.Resolve(mustPath(t, "common.count"))
	require.NoError(t, err)
	text, _ = v.Text()
	assert.Equal(t, "3", text)

	v, err = doc.Resolve(mustPath(t, "common.flag"))
	require.NoError(t, err)
	text, _ = v.Text()
	assert.Equal(t, "true", text)

	v, err = doc.Resolve(mustPath(t, "zeta"))
	require.NoError(t, err)
	text, _ = v.Text()
	assert.Equal(t, "ä ä <b>", text)
}

func TestResolveMissingSegments(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseDocument("reviewed.json", "reviewed", []byte(sampleDoc))
	require.NoError(t, err)

	cases := []struct {
		key     string
		segment string
	}{
		{"missing.logout", "missing"},
		{"common.missing", "missing"},
		{"common.logout.deeper", "logout"},
		{"zeta.x", "zeta"},
	}
	for _, tc := range cases {
		_, err := doc.Resolve(mustPath(t, tc.key))
		require.ErrorIs(t, err, ErrMissingSegment, tc.key)
		var pe *PathError
		require.True(t, errors.As(err, &pe), tc.key)
		assert.Equal(t, tc.segment, pe.Path[pe.Segment], tc.key)
	}

	_, err = doc.Resolve(mustPath(t, "common.empty"))
	assert.ErrorIs(t, err, ErrNotLeaf)
	_, err = doc.Resolve(mustPath(t, "common"))
	assert.ErrorIs(t, err, ErrNotLeaf)
}

func TestParseDocumentRejectsNonObjects(t *testing.T) {
	testlog.Start(t)
	_, err := ParseDocument("x.json", "x", []byte(`{"a":`))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = ParseDocument("x.json", "x", []byte(`["a"]`))
	assert.ErrorIs(t, err, ErrNotObject)
	_, err = ParseDocument("x.json", "x", []byte(``))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSetKeepsOrderAndFormatsStable(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseDocument("reviewed.json", "reviewed", []byte(sampleDoc))
	require.NoError(t, err)

	require.NoError(t, doc.Set(mustPath(t, "common.logout"), `Tschüß "du" <x> & y`))
	out, err := doc.Bytes()
	require.NoError(t, err)

	want := `{
  "common": {
    "logout": "Tschüß \"du\" <x> & y",
    "count": 3,
    "flag": true,
    "empty": {}
  },
  "zeta": "ä ä <b>",
  "alpha": "Schritt {{n}} von {{total}}"
}
`
	assert.Equal(t, want, string(out))

	reread, err := ParseDocument("reviewed.json", "reviewed", out)
	require.NoError(t, err)
	v, err := reread.Resolve(mustPath(t, "common.logout"))
	require.NoError(t, err)
	text, err := v.Text()
	require.NoError(t, err)
	assert.Equal(t, `Tschüß "du" <x> & y`, text)
}

func TestSetNeverCreatesStructure(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseDocument("reviewed.json", "reviewed", []byte(sampleDoc))
	require.NoError(t, err)
	before := doc.Snapshot()

	err = doc.Set(mustPath(t, "common.newkey"), "x")
	assert.ErrorIs(t, err, ErrMissingSegment)
	err = doc.Set(mustPath(t, "nope.deep.key"), "x")
	assert.ErrorIs(t, err, ErrMissingSegment)
	assert.Equal(t, before, doc.Snapshot())
}

func TestSnapshotRestore(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseDocument("reviewed.json", "reviewed", []byte(sampleDoc))
	require.NoError(t, err)
	snap := doc.Snapshot()
	require.NoError(t, doc.Set(mustPath(t, "alpha"), "changed"))
	doc.Restore(snap)
	v, err := doc.Resolve(mustPath(t, "alpha"))
	require.NoError(t, err)
	text, _ := v.Text()
	assert.Equal(t, "Schritt {{n}} von {{total}}", text)
}
