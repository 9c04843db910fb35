// Package profile maps focused applications to the compatibility
// knowledge the engine needs to inject into them. Supporting a new
// application means adding a table row, never a code branch.
package profile

import (
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/voxtype/voxtype/internal/strategy"
)

// Category groups applications that behave alike under injection
type Category string

const (
	CategoryBrowser  Category = "browser"
	CategoryIDE      Category = "ide"
	CategoryOffice   Category = "office"
	CategoryTerminal Category = "terminal"
	CategoryChat     Category = "chat"
	CategoryEditor   Category = "editor"
	CategoryGeneric  Category = "generic"
)

// Match describes which applications a profile claims. Process names
// match exactly (case-insensitive); window classes match by substring.
type Match struct {
	Processes []string
	Classes   []string
}

// Profile is the compatibility knowledge for one class of applications:
// which strategies to try in what order, and how to pace them.
type Profile struct {
	ID       string
	Category Category
	Match    Match
	Order    []strategy.Kind
	Tuning   strategy.Tuning
}

// Clone returns an independent copy so callers can hold a profile across
// a request while the registry mutates underneath.
func (p Profile) Clone() Profile {
	p.Match.Processes = slices.Clone(p.Match.Processes)
	p.Match.Classes = slices.Clone(p.Match.Classes)
	p.Order = slices.Clone(p.Order)
	return p
}

// Override is a user-supplied adjustment for one application, layered
// over the built-in table. Zero-valued fields keep the matched profile's
// setting.
type Override struct {
	Process          string
	Class            string
	Order            []strategy.Kind
	InterKeyDelay    time.Duration
	PasteChord       strategy.PasteChord
	RestoreClipboard *bool
}

// TuningDefaults are configuration-level pacing values layered between
// the built-in table and per-application overrides.
type TuningDefaults struct {
	SettleDelay      time.Duration
	RestoreClipboard bool
}

// Registry holds the profile table. Reads vastly outnumber writes (the
// monitor's demotions and config reloads are the only writers), so a
// plain RWMutex with clone-on-lookup is enough.
type Registry struct {
	mu        sync.RWMutex
	profiles  []Profile
	overrides []Override
	generic   Profile
	defaults  *TuningDefaults
}

// NewRegistry seeds the registry with the built-in table
func NewRegistry() *Registry {
	return &Registry{
		profiles: builtinProfiles(),
		generic:  genericProfile(),
	}
}

// Generic returns the fallback profile used when no window has focus or
// nothing in the table matches.
func (r *Registry) Generic() Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.applyDefaults(r.generic.Clone())
}

// Lookup resolves the profile for a target. Matching is exact
// process-name first, then window-class substring, then the generic
// profile; it never fails.
func (r *Registry) Lookup(processName, windowClass string) Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	proc := strings.ToLower(processName)
	class := strings.ToLower(windowClass)

	matched := r.generic
	found := false
	for _, p := range r.profiles {
		if slices.Contains(p.Match.Processes, proc) {
			matched = p
			found = true
			break
		}
	}
	if !found && class != "" {
		for _, p := range r.profiles {
			for _, sub := range p.Match.Classes {
				if strings.Contains(class, sub) {
					matched = p
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}

	return r.applyOverrides(r.applyDefaults(matched.Clone()), proc, class)
}

func (r *Registry) applyDefaults(p Profile) Profile {
	if r.defaults == nil {
		return p
	}
	p.Tuning.SettleDelay = r.defaults.SettleDelay
	p.Tuning.RestoreClipboard = r.defaults.RestoreClipboard
	return p
}

func (r *Registry) applyOverrides(p Profile, proc, class string) Profile {
	for _, o := range r.overrides {
		if o.Process != "" && strings.ToLower(o.Process) != proc {
			continue
		}
		if o.Class != "" && !strings.Contains(class, strings.ToLower(o.Class)) {
			continue
		}
		if o.Process == "" && o.Class == "" {
			continue
		}
		if len(o.Order) > 0 {
			p.Order = slices.Clone(o.Order)
		}
		if o.InterKeyDelay > 0 {
			p.Tuning.InterKeyDelay = o.InterKeyDelay
		}
		if o.PasteChord != "" {
			p.Tuning.PasteChord = o.PasteChord
		}
		if o.RestoreClipboard != nil {
			p.Tuning.RestoreClipboard = *o.RestoreClipboard
		}
	}
	return p
}

// SetOverrides replaces the user override set, typically after a config
// reload.
func (r *Registry) SetOverrides(overrides []Override) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = slices.Clone(overrides)
	log.Printf("Profile registry: %d user override(s) active", len(overrides))
}

// SetTuningDefaults replaces the configuration-level pacing values
// applied to every lookup. Per-application overrides still win.
func (r *Registry) SetTuningDefaults(d TuningDefaults) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults = &d
}

// Demote moves a strategy to the end of a profile's order for subsequent
// requests. Soft and reversible; Restore undoes it.
func (r *Registry) Demote(profileID string, kind strategy.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.byID(profileID)
	if p == nil {
		return
	}
	idx := slices.Index(p.Order, kind)
	if idx < 0 || idx == len(p.Order)-1 {
		return
	}
	p.Order = append(slices.Delete(slices.Clone(p.Order), idx, idx+1), kind)
	log.Printf("Profile registry: demoted %s for profile %s (order now %v)", kind, profileID, p.Order)
}

// Restore resets a profile's strategy order to its built-in default
func (r *Registry) Restore(profileID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.byID(profileID)
	if p == nil {
		return
	}
	for _, builtin := range builtinProfiles() {
		if builtin.ID == profileID {
			p.Order = builtin.Order
			return
		}
	}
	if profileID == r.generic.ID {
		r.generic.Order = genericProfile().Order
	}
}

// All returns a snapshot of the effective table, generic profile last
func (r *Registry) All() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, 0, len(r.profiles)+1)
	for _, p := range r.profiles {
		out = append(out, p.Clone())
	}
	return append(out, r.generic.Clone())
}

func (r *Registry) byID(id string) *Profile {
	if id == r.generic.ID {
		return &r.generic
	}
	for i := range r.profiles {
		if r.profiles[i].ID == id {
			return &r.profiles[i]
		}
	}
	return nil
}
