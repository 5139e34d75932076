package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const extraService = `
- slug: site-audit
  title: {en: Site Audit, ar: تدقيق الموقع}
  summary: {en: A crawl and fix list., ar: زحف وقائمة إصلاحات.}
  bullets: {en: [Crawl report], ar: [تقرير الزحف]}
  deliverables:
  - {en: Report, ar: تقرير}
  outcomes:
  - {en: Fewer errors, ar: أخطاء أقل}
  process:
  - {en: Crawl, ar: زحف}
`

func TestStoreReplaceNotifies(t *testing.T) {
	site := mustEmbedded(t)
	store := NewStore(site)
	var got *Site
	store.OnReplace(func(s *Site) { got = s })

	next := mustEmbedded(t)
	store.Replace(next)
	assert.Same(t, next, store.Site())
	assert.Same(t, next, got)
}

func TestWatchReloadsChangedTables(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeTables(t, dir)
	initial, err := LoadDir(dir)
	require.NoError(t, err)

	store := NewStore(initial)
	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx, dir, zap.New(core)) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	waitForLog(t, logs, "content: watching for changes")

	services, err := os.ReadFile(filepath.Join(dir, "services.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "services.yaml"), append(services, extraService...), 0o644))

	assert.Eventually(t, func() bool {
		_, ok := store.Site().Service("site-audit")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "blog.yaml"), []byte("- slug: [broken"), 0o644))
	waitForLog(t, logs, "content: reload failed, keeping previous content")
	_, ok := store.Site().Service("site-audit")
	assert.True(t, ok, "failed reload must keep the last good content")
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeTables(t, dir)
	initial, err := LoadDir(dir)
	require.NoError(t, err)

	store := NewStore(initial)
	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx, dir, zap.New(core)) }()

	waitForLog(t, logs, "content: watching for changes")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("draft"), 0o644))

	assert.Never(t, func() bool { return store.Site() != initial }, 200*time.Millisecond, 20*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestWatchMissingDir(t *testing.T) {
	store := NewStore(mustEmbedded(t))
	err := store.Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), zap.NewNop())
	require.Error(t, err)
}

func writeTables(t *testing.T, dir string) {
	t.Helper()
	for _, name := range Files {
		data, err := dataFS.ReadFile("data/" + name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
}

func waitForLog(t *testing.T, logs *observer.ObservedLogs, msg string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return logs.FilterMessage(msg).Len() > 0
	}, 5*time.Second, 10*time.Millisecond, "no %q log", msg)
}
