// Package thumbnail implements the freedesktop.org Thumbnail Managing
// Standard cache: MD5-fingerprinted PNGs bucketed by size under
// $XDG_CACHE_HOME/thumbnails, generate-or-hit semantics, a decoded-image
// memory cache, and 7-day cleanup.
//
// Grounded on the original ThumbnailBackend/ThumbnailService
// (original_source/src/backend/thumbnail.rs,
// src/service/thumbnail.rs): same size buckets, same cache-dir
// resolution, same mtime-comparison validity rule and 7-day cleanup
// window. The original's uri_to_thumbnail_name used a placeholder
// DefaultHasher "for now, use a hash that's good enough for testing";
// this implementation uses real MD5 as the freedesktop spec (and the
// fingerprint the rest of the system expects) requires.
package thumbnail

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	cache "github.com/patrickmn/go-cache"
	bolt "go.etcd.io/bbolt"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/internal/xdg"
	"github.com/driftfs/vfs/internal/xlog"
)

// Size is a thumbnail bucket, per the freedesktop.org spec.
type Size int

// Thumbnail sizes.
const (
	SizeNormal Size = iota
	SizeLarge
	SizeXLarge
	SizeXXLarge
)

// Pixels returns the square dimension of the bucket.
func (s Size) Pixels() int {
	switch s {
	case SizeLarge:
		return 256
	case SizeXLarge:
		return 512
	case SizeXXLarge:
		return 1024
	default:
		return 128
	}
}

// DirName returns the bucket's on-disk directory name.
func (s Size) DirName() string {
	switch s {
	case SizeLarge:
		return "large"
	case SizeXLarge:
		return "x-large"
	case SizeXXLarge:
		return "xx-large"
	default:
		return "normal"
	}
}

// FingerprintName returns the MD5-hex.png basename for uri, per spec
// §4.10: "hex-encoded MD5 digest of the raw URI bytes (no trailing
// newline)".
func FingerprintName(uri string) string {
	sum := md5.Sum([]byte(uri))
	return hex.EncodeToString(sum[:]) + ".png"
}

// CacheDir returns the on-disk directory for a given bucket.
func CacheDir(size Size) string {
	return filepath.Join(xdg.ThumbnailRoot(), size.DirName())
}

// PathFor returns the on-disk path a uri's thumbnail at size would live
// at, regardless of whether it currently exists.
func PathFor(uri string, size Size) string {
	return filepath.Join(CacheDir(size), FingerprintName(uri))
}

// EventKind distinguishes ThumbnailReady from ThumbnailFailed, spec
// §4.10/§6's two thumbnail broadcast event variants.
type EventKind int

// Event kinds.
const (
	EventReady EventKind = iota
	EventFailed
)

// Event is delivered on Cache's broadcast channel.
type Event struct {
	Kind  EventKind
	URI   string
	Size  Size
	Path  string
	Kind2 vfs.Kind // populated on EventFailed
	Msg   string
}

// Thumbnailer invokes an external subprocess to render src into dst at
// the requested pixel dimension, matching spec §4.10's "delegates to an
// external subprocess producer". There is no default: a Cache opened
// with a nil Thumbnailer fails generation with KindNotSupported, and
// callers wire in whatever thumbnailer is installed (ExternalThumbnailer
// builds one that runs a named command).
type Thumbnailer func(ctx context.Context, srcPath, dstPath string, pixels int) error

// Cache is the thumbnail subsystem: on-disk PNG cache plus an in-memory
// decoded-image cache and a persistent metadata store recording when
// each thumbnail was generated.
type Cache struct {
	thumbnailer Thumbnailer
	decoded     *cache.Cache
	meta        *bolt.DB
	events      chan Event
}

var metaBucket = []byte("thumbnail-meta")

// Open opens (creating if needed) the thumbnail cache's metadata store
// at dbPath and returns a Cache using thumbnailer to render images.
func Open(dbPath string, thumbnailer Thumbnailer) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, vfs.FromOS(err, "create thumbnail metadata directory")
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, vfs.Wrap(vfs.KindFailed, err, "open thumbnail metadata store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, vfs.Wrap(vfs.KindFailed, err, "init thumbnail metadata bucket")
	}
	return &Cache{
		thumbnailer: thumbnailer,
		decoded:     cache.New(10*time.Minute, 10*time.Minute),
		meta:        db,
		events:      make(chan Event, vfs.MonitorChannelCapacity),
	}, nil
}

// Close releases the metadata store.
func (c *Cache) Close() error { return c.meta.Close() }

// Events returns the ThumbnailReady/ThumbnailFailed broadcast channel.
func (c *Cache) Events() <-chan Event { return c.events }

func (c *Cache) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
	}
}

// IsValid reports whether a thumbnail for uri at size already exists
// and is at least as new as sourceMtime, grounded on
// ThumbnailBackend::has_valid_thumbnail.
func (c *Cache) IsValid(uri string, size Size, sourceMtime time.Time) bool {
	path := PathFor(uri, size)
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.ModTime().Before(sourceMtime)
}

// GetOrGenerate returns the path to a valid thumbnail for (srcPath,
// uri) at size, generating one via the configured Thumbnailer and
// atomically moving it into place if none is valid yet. Grounded on
// ThumbnailService::get_or_generate_thumbnail.
func (c *Cache) GetOrGenerate(ctx context.Context, uri, srcPath string, size Size, sourceMtime time.Time) (string, error) {
	if err := vfs.CheckCancel(ctx); err != nil {
		return "", err
	}
	if c.IsValid(uri, size, sourceMtime) {
		return PathFor(uri, size), nil
	}

	dir := CacheDir(size)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		err = vfs.FromOS(err, "create thumbnail cache dir")
		c.emit(Event{Kind: EventFailed, URI: uri, Size: size, Kind2: vfs.KindOf(err), Msg: err.Error()})
		return "", err
	}

	final := PathFor(uri, size)
	tmp := final + ".tmp-" + fmt.Sprint(time.Now().UnixNano())

	if c.thumbnailer == nil {
		err := vfs.NewError(vfs.KindNotSupported, "no thumbnailer configured")
		c.emit(Event{Kind: EventFailed, URI: uri, Size: size, Kind2: vfs.KindNotSupported, Msg: err.Error()})
		return "", err
	}

	if err := c.thumbnailer(ctx, srcPath, tmp, size.Pixels()); err != nil {
		_ = os.Remove(tmp)
		werr := vfs.Wrap(vfs.KindFailed, err, "thumbnailer invocation failed")
		c.emit(Event{Kind: EventFailed, URI: uri, Size: size, Kind2: vfs.KindOf(werr), Msg: werr.Error()})
		return "", werr
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		werr := vfs.FromOS(err, "move thumbnail into place")
		c.emit(Event{Kind: EventFailed, URI: uri, Size: size, Kind2: vfs.KindOf(werr), Msg: werr.Error()})
		return "", werr
	}

	c.recordMeta(uri, size, time.Now())
	c.emit(Event{Kind: EventReady, URI: uri, Size: size, Path: final})
	return final, nil
}

func (c *Cache) recordMeta(uri string, size Size, generatedAt time.Time) {
	_ = c.meta.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		key := fmt.Sprintf("%s:%d", uri, size)
		return b.Put([]byte(key), []byte(generatedAt.Format(time.RFC3339Nano)))
	})
}

// CacheDecoded stores a decoded RGBA buffer for "<uri>:<size>", spec
// §4.10's decoded-image cache for UI consumers.
func (c *Cache) CacheDecoded(uri string, size Size, pixels []byte) {
	key := decodedKey(uri, size)
	c.decoded.SetDefault(key, pixels)
}

// GetDecoded retrieves a previously cached decoded image.
func (c *Cache) GetDecoded(uri string, size Size) ([]byte, bool) {
	v, ok := c.decoded.Get(decodedKey(uri, size))
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func decodedKey(uri string, size Size) string {
	return fmt.Sprintf("%s:%d", uri, size)
}

// Cleanup removes cached files in size's bucket older than 7 days,
// grounded on ThumbnailService::cleanup_thumbnails.
func (c *Cache) Cleanup(size Size) (int, error) {
	dir := CacheDir(size)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, vfs.FromOS(err, "read thumbnail cache dir")
	}

	const maxAge = 7 * 24 * time.Hour
	deleted := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".png" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > maxAge {
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}

// ExternalThumbnailer builds a Thumbnailer that shells out to a named
// command taking (source, destination, size) positional arguments,
// matching the generic ".thumbnailer" subprocess invocation convention
// spec §4.10 and the original's design notes describe.
func ExternalThumbnailer(command string, args ...string) Thumbnailer {
	return func(ctx context.Context, srcPath, dstPath string, pixels int) error {
		argv := make([]string, 0, len(args)+3)
		argv = append(argv, args...)
		argv = append(argv, srcPath, dstPath, fmt.Sprint(pixels))
		cmd := exec.CommandContext(ctx, command, argv...)
		if out, err := cmd.CombinedOutput(); err != nil {
			xlog.Errorf(command, "thumbnailer failed: %v: %s", err, out)
			return err
		}
		return nil
	}
}
