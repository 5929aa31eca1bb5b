package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prayerkit/prayerkit/internal/api"
	"github.com/prayerkit/prayerkit/internal/geo"
)

const (
	timingsCacheFile = "timings_%s.json" // keyed by hash
	geoCacheFile     = "geolocation.json"
	geoTTL           = 24 * time.Hour
)

// Cache provides file-based caching for prayer timings and geolocation data.
type Cache struct {
	dir string
}

// TimingsCacheEntry stores a day's prayer timings along with metadata for validation.
type TimingsCacheEntry struct {
	Date     string       `json:"date"` // YYYY-MM-DD
	Method   int          `json:"method"`
	School   int          `json:"school"`
	Tune     string       `json:"tune,omitempty"`
	Timings  api.Timings  `json:"timings"`
	DateInfo api.DateInfo `json:"date_info"`
	Meta     api.Meta     `json:"meta"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/prayerkit/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "prayerkit")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// Key identifies a day's timings request. Every parameter that changes the
// API result participates in the hash so different locations, methods, or
// tune offsets get separate cache files.
type Key struct {
	Date    time.Time
	Lat     float64
	Lon     float64
	City    string
	Country string
	Method  int
	School  int
	Tune    string
}

func (k Key) hash() string {
	dateStr := k.Date.Format("2006-01-02")
	raw := fmt.Sprintf("%s|%.6f|%.6f|%s|%s|%d|%d|%s",
		dateStr, k.Lat, k.Lon, k.City, k.Country, k.Method, k.School, k.Tune)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

// LoadTimings attempts to read cached prayer timings for the given key.
// Returns nil if the cache is missing or stale (wrong date).
func (c *Cache) LoadTimings(key Key) *TimingsCacheEntry {
	path := filepath.Join(c.dir, fmt.Sprintf(timingsCacheFile, key.hash()))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entry TimingsCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	// Validate the date matches -- stale cache for a previous day is useless.
	if entry.Date != key.Date.Format("2006-01-02") {
		return nil
	}

	return &entry
}

// SaveTimings writes prayer timings to the cache.
func (c *Cache) SaveTimings(key Key, resp *api.Response) error {
	path := filepath.Join(c.dir, fmt.Sprintf(timingsCacheFile, key.hash()))

	entry := TimingsCacheEntry{
		Date:     key.Date.Format("2006-01-02"),
		Method:   key.Method,
		School:   key.School,
		Tune:     key.Tune,
		Timings:  resp.Data.Timings,
		DateInfo: resp.Data.Date,
		Meta:     resp.Data.Meta,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	path := filepath.Join(c.dir, geoCacheFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if time.Since(entry.CachedAt) > geoTTL {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	path := filepath.Join(c.dir, geoCacheFile)

	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}
