// Package resources applies and reverts a palette against the host's
// two resource surfaces: the mutable base style table and an appended
// overlay dictionary.
package resources

import (
	"strings"

	cblog "github.com/charmbracelet/log"

	"github.com/uprooted/retheme/pkg/bridge"
	"github.com/uprooted/retheme/pkg/errors"
	"github.com/uprooted/retheme/pkg/palette"
)

// record remembers what a resource key looked like before any theme
// touched it. Captured at most once per key for the life of the
// process, so chained theme switches still restore the true
// pre-theming value.
type record struct {
	original string
	kind     bridge.ValueKind
	added    bool // key did not exist before theming
}

// Store tracks per-key override state against one host.
type Store struct {
	host    bridge.Host
	records map[string]record
	overlay bridge.ResourceTable
	log     *cblog.Logger
}

// NewStore creates a store bound to a host.
func NewStore(host bridge.Host) *Store {
	return &Store{
		host:    host,
		records: make(map[string]record),
		log:     cblog.With("component", "resources"),
	}
}

// Active reports whether an overlay is currently attached.
func (s *Store) Active() bool { return s.overlay != nil }

// Apply writes every palette entry into the base style table and the
// overlay dictionary, capturing pre-theming originals the first time a
// key is ever touched. A failure on one key is logged and skipped; the
// host's resource schema is discovered at runtime and may reject
// individual keys depending on its version.
//
// During live updates the existing overlay is reused, and keys already
// captured are not re-captured, so repeated calls write in place.
func (s *Store) Apply(p *palette.Palette) {
	base := s.host.Resources().Base()
	if s.overlay == nil {
		s.overlay = s.host.NewOverlay()
		s.host.Resources().Append(s.overlay)
	}

	var overridden, added, failed int
	for _, e := range p.Entries() {
		kind := bridge.ValueColor
		if e.Kind == palette.KindBrush {
			kind = bridge.ValueBrush
		}

		if s.write(base, e.Key, e.Value, kind) {
			if s.records[e.Key].added {
				added++
			} else {
				overridden++
			}
		} else {
			failed++
		}

		// Color keys also get an auto-generated brush companion so
		// host templates binding "<Key>Brush" pick the theme up.
		if e.Kind == palette.KindColor && !strings.HasSuffix(e.Key, "Brush") {
			s.write(base, e.Key+"Brush", e.Value, bridge.ValueBrush)
		}
	}

	s.log.Info("palette applied", "overridden", overridden, "added", added, "failed", failed)
}

// write captures the key's pre-theming state if this is the first touch
// ever, then sets the new value in both surfaces. Returns false if the
// base write failed.
func (s *Store) write(base bridge.ResourceTable, key, value string, kind bridge.ValueKind) bool {
	if _, seen := s.records[key]; !seen {
		if orig, ok := base.Lookup(key); ok {
			s.records[key] = record{original: orig, kind: kind}
		} else {
			s.records[key] = record{added: true}
		}
	}

	if err := base.Set(key, value, kind); err != nil {
		werr := errors.BridgeError("BASE_WRITE_FAILED", "base style write failed").
			WithCause(err).
			WithContext("key", key)
		s.log.Warn("base style write failed", "key", key, "err", werr)
		return false
	}
	if err := s.overlay.Set(key, value, kind); err != nil {
		werr := errors.BridgeError("OVERLAY_WRITE_FAILED", "overlay write failed").
			WithCause(err).
			WithContext("key", key)
		s.log.Warn("overlay write failed", "key", key, "err", werr)
	}
	return true
}

// Restore puts every captured key back: saved originals rewritten,
// added keys removed, overlay detached from the chain. Capture records
// are kept so a follow-up apply still restores against pre-theming
// ground truth. Idempotent; calling with nothing applied is a no-op.
func (s *Store) Restore() {
	if s.overlay == nil {
		return
	}

	base := s.host.Resources().Base()
	var restored, removed int
	for key, r := range s.records {
		if r.added {
			if err := base.Remove(key); err != nil {
				s.log.Warn("failed to remove added key", "key", key, "err", err)
				continue
			}
			removed++
			continue
		}
		if err := base.Set(key, r.original, r.kind); err != nil {
			s.log.Warn("failed to restore key", "key", key, "err", err)
			continue
		}
		restored++
	}

	s.host.Resources().Remove(s.overlay)
	s.overlay = nil
	s.log.Info("palette reverted", "restored", restored, "removed", removed)
}

// Reset restores and then forgets all capture records. Only the public
// revert path calls this; theme-to-theme transitions keep the records
// so originals survive any number of switches.
func (s *Store) Reset() {
	s.Restore()
	s.records = make(map[string]record)
}
