package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// Cache remembers job URLs across runs so repeat searches don't spam the
// queue with listings already stored. Entries expire after thirty days.
type Cache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewCache creates or loads the seen-URL cache under cacheDir.
func NewCache(cacheDir string) *Cache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	c := &Cache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
	}
	c.load()
	return c
}

// IsSeen reports whether a URL was stored by an earlier run.
func (c *Cache) IsSeen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[url]
	return exists
}

// Add records URLs and persists the cache when anything changed.
func (c *Cache) Add(urls ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, exists := c.seen[url]; !exists {
			c.seen[url] = now
			changed = true
		}
	}
	if changed {
		c.save()
	}
}

func (c *Cache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

func (c *Cache) save() {
	entries := make([]seenEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}
