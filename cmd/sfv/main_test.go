package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shcv/sfv"
	"github.com/shcv/sfv/sfvcache"
)

func newTestRuntime(t *testing.T) (*runtime, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	p := sfv.NewParser(sfv.DefaultConfig())
	cfg := sfvcache.DefaultConfig()
	cfg.Metrics = true
	c, err := sfvcache.New(p, cfg)
	require.NoError(t, err)
	return &runtime{log: log, parser: p, cache: c}, hook
}

func TestRuntimeCloseReleasesCache(t *testing.T) {
	rt, hook := newTestRuntime(t)

	_, err := rt.parseLines("dictionary", []string{"a=1, b"})
	require.NoError(t, err)

	rt.close()
	assert.Nil(t, rt.cache)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "cache stats", entry.Message)
	assert.Equal(t, uint64(1), entry.Data["misses"])

	// Closing twice is a no-op.
	rt.close()
}

func TestRuntimeCloseAfterFailedParse(t *testing.T) {
	rt, _ := newTestRuntime(t)

	_, err := rt.parseLines("item", []string{"1, 2"})
	require.Error(t, err)

	rt.close()
	assert.Nil(t, rt.cache)
}

func TestParseLinesItemTakesOneLine(t *testing.T) {
	rt, _ := newTestRuntime(t)
	defer rt.close()

	_, err := rt.parseLines("item", []string{"1", "2"})
	assert.ErrorContains(t, err, "exactly one line")

	v, err := rt.parseLines("list", []string{"a", "", "b;x"})
	require.NoError(t, err)
	out, err := sfv.MarshalString(v)
	require.NoError(t, err)
	assert.Equal(t, "a, b;x", out)
}
