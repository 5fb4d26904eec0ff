package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ionasm/internal/ir"
	"ionasm/internal/source"
)

// Digest is a SHA-256 content hash, the cache key.
type Digest = [32]byte

// Increment when HeaderPayload changes shape.
const headerCacheSchemaVersion uint16 = 1

// HeaderCache persists header metadata keyed by source content hash, so
// repeated `info` runs over unchanged files skip parsing entirely.
// Thread-safe for concurrent access.
type HeaderCache struct {
	mu  sync.RWMutex
	dir string
}

// HeaderPayload is the cached header metadata of one source file.
type HeaderPayload struct {
	Schema uint16

	Path string

	RegisterName string
	RegisterSize int64

	ConstNames  []string
	ConstValues []string

	AliasNames []string
	Usepulses  []string
	MacroNames []string
}

// OpenHeaderCache initializes the disk cache at the standard XDG location.
func OpenHeaderCache(app string) (*HeaderCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &HeaderCache{dir: dir}, nil
}

func (c *HeaderCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "headers", hexKey+".mp")
}

// Put serializes and atomically writes a payload.
func (c *HeaderCache) Put(key Digest, payload *HeaderPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload; ok is false on a miss or a schema mismatch.
func (c *HeaderCache) Get(key Digest, out *HeaderPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == headerCacheSchemaVersion, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *HeaderCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// Inspect returns the header metadata for path, consulting the cache first.
// cache may be nil to force a fresh parse.
func Inspect(path string, cache *HeaderCache) (*HeaderPayload, error) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	key := fileSet.Get(fileID).Hash

	cached := &HeaderPayload{}
	if hit, err := cache.Get(key, cached); err == nil && hit {
		return cached, nil
	}

	// A plain compile rather than header-only: macro names live in the body,
	// and the payload lists them too.
	res, err := compile(fileSet, fileID, Options{})
	if err != nil {
		return nil, err
	}

	payload := payloadFromCircuit(path, res.Circuit)
	// Cache write failures only cost the next run a parse.
	_ = cache.Put(key, payload)
	return payload, nil
}

func payloadFromCircuit(path string, c *ir.Circuit) *HeaderPayload {
	payload := &HeaderPayload{
		Schema: headerCacheSchemaVersion,
		Path:   path,
	}
	if reg := c.FundamentalRegister(); reg != nil {
		payload.RegisterName = reg.Name
		if size, ok := reg.ResolvedSize(); ok {
			payload.RegisterSize = size
		}
	}
	for _, k := range c.Constants {
		payload.ConstNames = append(payload.ConstNames, k.Name)
		payload.ConstValues = append(payload.ConstValues, k.Value.Text())
	}
	for _, r := range c.Registers {
		if !r.Fundamental() {
			payload.AliasNames = append(payload.AliasNames, r.Name)
		}
	}
	for _, u := range c.Usepulses {
		payload.Usepulses = append(payload.Usepulses, u.Module)
	}
	for _, m := range c.Macros {
		payload.MacroNames = append(payload.MacroNames, m.Name)
	}
	return payload
}
