package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheRemembersURLs(t *testing.T) {
	c := NewCache(t.TempDir())

	assert.False(t, c.IsSeen("https://a.test/1"))
	c.Add("https://a.test/1", "https://a.test/2")
	assert.True(t, c.IsSeen("https://a.test/1"))
	assert.True(t, c.IsSeen("https://a.test/2"))
}

func TestCacheSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	c := NewCache(dir)
	c.Add("https://a.test/1")

	reloaded := NewCache(dir)
	assert.True(t, reloaded.IsSeen("https://a.test/1"))
}

func TestCacheExpiresOldEntries(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-31 * 24 * time.Hour).UnixMilli()
	fresh := time.Now().UnixMilli()
	entries := []seenEntry{
		{URL: "https://a.test/old", Timestamp: old},
		{URL: "https://a.test/fresh", Timestamp: fresh},
	}
	data, err := json.Marshal(entries)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), data, 0644))

	c := NewCache(dir)

	assert.False(t, c.IsSeen("https://a.test/old"))
	assert.True(t, c.IsSeen("https://a.test/fresh"))
}

func TestCacheIgnoresEmptyURLs(t *testing.T) {
	c := NewCache(t.TempDir())

	c.Add("")
	assert.False(t, c.IsSeen(""))
}

func TestCacheToleratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), []byte("{not json"), 0644))

	c := NewCache(dir)

	assert.False(t, c.IsSeen("https://a.test/1"))
	c.Add("https://a.test/1")
	assert.True(t, c.IsSeen("https://a.test/1"))
}
