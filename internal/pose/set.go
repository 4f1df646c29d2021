package pose

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/1broseidon/ghostdock/internal/chromakey"
)

const (
	// DefaultCount is the number of poses a ghost shell ships with.
	DefaultCount = 12
	// DefaultGhost is the ghost loaded when none is configured.
	DefaultGhost = "N_HokanSakura021214"
	// DefaultMaxWidth and DefaultMaxHeight bound the displayed sprite.
	DefaultMaxWidth  = 200
	DefaultMaxHeight = 300

	defaultCacheSize = 32
)

// ErrNoSprite means neither the requested pose nor pose 0 could be loaded.
var ErrNoSprite = errors.New("no sprite available")

// Sprite is a keyed, display-ready pose.
type Sprite struct {
	Index  int
	Bitmap *chromakey.Bitmap
	// FellBack is true when the requested pose failed and pose 0 was shown.
	FellBack bool
}

// Options configures a Set.
type Options struct {
	Ghost     string
	Count     int
	MaxWidth  int
	MaxHeight int
	Key       chromakey.Key
	// CacheSize bounds the number of keyed bitmaps kept in memory.
	CacheSize int
}

// DefaultOptions returns the stock ghost with the green key.
func DefaultOptions() Options {
	return Options{
		Ghost:     DefaultGhost,
		Count:     DefaultCount,
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Key:       chromakey.DefaultKey(),
		CacheSize: defaultCacheSize,
	}
}

type cacheKey struct {
	ghost string
	index int
}

// Set cycles through a ghost's poses.
type Set struct {
	src    Source
	opts   Options
	logger *slog.Logger
	cache  *lru.Cache[cacheKey, *chromakey.Bitmap]

	mu      sync.Mutex
	current int
}

// NewSet creates a pose set starting at pose 0.
func NewSet(src Source, opts Options, logger *slog.Logger) (*Set, error) {
	if src == nil {
		return nil, errors.New("pose source is required")
	}
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	if opts.Ghost == "" {
		opts.Ghost = DefaultGhost
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := lru.New[cacheKey, *chromakey.Bitmap](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create pose cache: %w", err)
	}

	return &Set{
		src:    src,
		opts:   opts,
		logger: logger,
		cache:  cache,
	}, nil
}

// Count returns the number of poses.
func (s *Set) Count() int {
	return s.opts.Count
}

// Ghost returns the ghost name.
func (s *Set) Ghost() string {
	return s.opts.Ghost
}

// Current returns the current pose index.
func (s *Set) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Next advances the current pose, wrapping after the last one, and returns
// the new index.
func (s *Set) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = (s.current + 1) % s.opts.Count
	return s.current
}

// Select makes index current. Out of range indexes are accepted; Load treats
// them as missing.
func (s *Set) Select(index int) {
	s.mu.Lock()
	s.current = index
	s.mu.Unlock()
}

// LoadCurrent loads the current pose.
func (s *Set) LoadCurrent() (Sprite, error) {
	return s.Load(s.Current())
}

// Load returns the keyed bitmap for index. A failure falls back to pose 0
// exactly once; if that fails too the current index is reset to 0 and
// ErrNoSprite is returned.
func (s *Set) Load(index int) (Sprite, error) {
	bmp, err := s.load(index)
	if err == nil {
		return Sprite{Index: index, Bitmap: bmp}, nil
	}

	s.logger.Warn("failed to load pose", "ghost", s.opts.Ghost, "pose", index, "error", err)
	if index != 0 {
		bmp, fallbackErr := s.load(0)
		if fallbackErr == nil {
			s.Select(0)
			return Sprite{Index: 0, Bitmap: bmp, FellBack: true}, nil
		}
		s.logger.Error("failed to load fallback pose", "ghost", s.opts.Ghost, "error", fallbackErr)
		err = fallbackErr
	}

	s.Select(0)
	return Sprite{}, fmt.Errorf("%w: %w", ErrNoSprite, err)
}

func (s *Set) load(index int) (*chromakey.Bitmap, error) {
	if index < 0 || index >= s.opts.Count {
		return nil, fmt.Errorf("%w: pose %d outside [0,%d)", ErrNotFound, index, s.opts.Count)
	}

	key := cacheKey{ghost: s.opts.Ghost, index: index}
	if bmp, ok := s.cache.Get(key); ok {
		return bmp, nil
	}

	raw, err := s.src.Load(s.opts.Ghost, index)
	if err != nil {
		return nil, err
	}
	if raw == nil || !raw.Valid() || raw.Empty() {
		return nil, fmt.Errorf("pose %d: invalid bitmap", index)
	}

	bmp := chromakey.Filter(raw, s.opts.Key)
	bmp = chromakey.FitWithin(bmp, s.opts.MaxWidth, s.opts.MaxHeight)
	s.cache.Add(key, bmp)
	return bmp, nil
}

// Purge drops every cached bitmap.
func (s *Set) Purge() {
	s.cache.Purge()
}
