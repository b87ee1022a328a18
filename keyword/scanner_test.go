package keyword_test

import (
	"testing"

	"github.com/flowfcs/fcs/keyword"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanEmptyTextIsFatal(t *testing.T) {
	_, err := keyword.Scan(nil, keyword.DefaultConfig())
	assert.Error(t, err)
}

func TestScanParsesStandardAndNonStandardKeys(t *testing.T) {
	data := []byte("/$CYT/FACSCalibur/my-key/my-value/")
	tv, err := keyword.Scan(data, keyword.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, byte('/'), tv.Value.Delimiter)

	cyt, ok := tv.Value.Keywords.GetStandard("CYT")
	require.True(t, ok)
	assert.Equal(t, "FACSCalibur", cyt)

	v, ok := tv.Value.Keywords.GetNonStandard("my-key")
	require.True(t, ok)
	assert.Equal(t, "my-value", v)
}

func TestScanDoublingDialectUnescapesDelimiter(t *testing.T) {
	data := []byte("/$CYT/FAC//Scalibur/")
	tv, err := keyword.Scan(data, keyword.DefaultConfig())
	require.NoError(t, err)
	cyt, ok := tv.Value.Keywords.GetStandard("CYT")
	require.True(t, ok)
	assert.Equal(t, "FAC/Scalibur", cyt)
}

func TestScanAppendStandardKeywordsInjectsConfiguredPairs(t *testing.T) {
	cfg := keyword.DefaultConfig()
	cfg.Key.AppendStandardKeywords = map[string]string{"MODE": "L"}
	tv, err := keyword.Scan([]byte("/$CYT/FACSCalibur/"), cfg)
	require.NoError(t, err)
	v, ok := tv.Value.Keywords.GetStandard("MODE")
	require.True(t, ok)
	assert.Equal(t, "L", v)
}

func TestScanNonUniqueKeyWarnsUnderDefaultPolicy(t *testing.T) {
	data := []byte("/$CYT/one/$CYT/two/")
	tv, err := keyword.Scan(data, keyword.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, tv.HasErrors())
	v, ok := tv.Value.Keywords.GetStandard("CYT")
	require.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestScanNonUniqueKeyErrorsWhenDisallowed(t *testing.T) {
	cfg := keyword.DefaultConfig()
	cfg.AllowNonUnique = false
	data := []byte("/$CYT/one/$CYT/two/")
	tv, err := keyword.Scan(data, cfg)
	require.NoError(t, err)
	assert.True(t, tv.HasErrors())
}

func TestScanNonStandardKeyCanBePromoted(t *testing.T) {
	cfg := keyword.DefaultConfig()
	cfg.Key.PromoteToStandard = []keyword.KeyRule{{Literal: "special"}}
	data := []byte("/special/value/")
	tv, err := keyword.Scan(data, cfg)
	require.NoError(t, err)
	v, ok := tv.Value.Keywords.GetStandard("special")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestScanSupplementalMergesIntoExistingStore(t *testing.T) {
	primary, err := keyword.Scan([]byte("/$CYT/FACSCalibur/"), keyword.DefaultConfig())
	require.NoError(t, err)
	store := primary.Value.Keywords

	supTv, err := keyword.ScanSupplemental([]byte("/$OP/operator/"), '/', keyword.DefaultConfig(), store)
	require.NoError(t, err)
	assert.False(t, supTv.HasErrors())

	v, ok := store.GetStandard("OP")
	require.True(t, ok)
	assert.Equal(t, "operator", v)
}

func TestScanSupplementalDelimMismatchIsWarned(t *testing.T) {
	primary, err := keyword.Scan([]byte("/$CYT/FACSCalibur/"), keyword.DefaultConfig())
	require.NoError(t, err)
	store := primary.Value.Keywords

	supTv, err := keyword.ScanSupplemental([]byte("|$OP/operator|"), '/', keyword.DefaultConfig(), store)
	require.NoError(t, err)
	assert.False(t, supTv.HasErrors())
}

func TestParsedKeywordsDigestIsStableAndOrderSensitiveBucket(t *testing.T) {
	tv1, err := keyword.Scan([]byte("/$CYT/a/$OP/b/"), keyword.DefaultConfig())
	require.NoError(t, err)
	tv2, err := keyword.Scan([]byte("/$CYT/a/$OP/b/"), keyword.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, tv1.Value.Keywords.Digest(), tv2.Value.Keywords.Digest())

	tv3, err := keyword.Scan([]byte("/$CYT/a/$OP/different/"), keyword.DefaultConfig())
	require.NoError(t, err)
	assert.NotEqual(t, tv1.Value.Keywords.Digest(), tv3.Value.Keywords.Digest())
}

func TestRemoveStandardDeletesAndReturnsValue(t *testing.T) {
	tv, err := keyword.Scan([]byte("/$CYT/FACSCalibur/"), keyword.DefaultConfig())
	require.NoError(t, err)
	store := tv.Value.Keywords

	v, ok := store.RemoveStandard("CYT")
	require.True(t, ok)
	assert.Equal(t, "FACSCalibur", v)
	assert.Equal(t, 0, store.StandardLen())

	_, ok = store.RemoveStandard("CYT")
	assert.False(t, ok)
}
