package sellout

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is a step of the import wizard. Transitions are driven by discrete
// user submissions; the session carries every decision instead of recomputing
// it, so a server restart loses in-flight imports.
type State int

const (
	StateUploaded State = iota
	StateHeadersExtracted
	StateMapped
	StateChannelsExtracted
	StateHomologated
	StateSkusChecked
	StateCorrectionsCollected
	StateCommitted
	StateCancelled
)

var stateNames = map[State]string{
	StateUploaded:             "uploaded",
	StateHeadersExtracted:     "headers_extracted",
	StateMapped:               "mapped",
	StateChannelsExtracted:    "channels_extracted",
	StateHomologated:          "homologated",
	StateSkusChecked:          "skus_checked",
	StateCorrectionsCollected: "corrections_collected",
	StateCommitted:            "committed",
	StateCancelled:            "cancelled",
}

func (s State) String() string { return stateNames[s] }

// transitions lists the legal next states. The two skip edges cover an
// unmapped channel column (Mapped straight to SkusChecked) and a file whose
// SKUs all validate (SkusChecked straight to Committed); both are further
// guarded on the session data in SetInvalidSKUs and commitGuard.
var transitions = map[State][]State{
	StateUploaded:             {StateHeadersExtracted},
	StateHeadersExtracted:     {StateHeadersExtracted, StateMapped},
	StateMapped:               {StateChannelsExtracted, StateSkusChecked},
	StateChannelsExtracted:    {StateHomologated},
	StateHomologated:          {StateSkusChecked},
	StateSkusChecked:          {StateCorrectionsCollected, StateCommitted},
	StateCorrectionsCollected: {StateCommitted},
}

// WizardSession is the per-user import in progress. Mutated only through the
// Wizard, which holds the lock.
type WizardSession struct {
	UserID      string
	FilePath    string
	Sheet       string
	Mapping     ColumnMapping
	Channels    HomologationTable
	Corrections CorrectionTable
	InvalidSKUs []string
	State       State
	UpdatedAt   time.Time
}

var (
	ErrNoSession     = errors.New("no import in progress for this user")
	ErrBadTransition = errors.New("step not allowed from the current wizard state")
)

// Wizard owns every in-flight import session, keyed by user id. One import
// per user at a time; starting a new upload replaces (and cleans up) the old
// one.
type Wizard struct {
	mu       sync.Mutex
	sessions map[string]*WizardSession
	store    *FileStore
	ttl      time.Duration
}

func NewWizard(store *FileStore, ttl time.Duration) *Wizard {
	return &Wizard{
		sessions: make(map[string]*WizardSession),
		store:    store,
		ttl:      ttl,
	}
}

// Begin starts a session at StateUploaded. A previous unfinished import for
// the same user is cancelled first so its temp file is released.
func (w *Wizard) Begin(userID, path, sheet string) *WizardSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	if old, ok := w.sessions[userID]; ok {
		w.store.Remove(old.FilePath)
	}
	s := &WizardSession{
		UserID:    userID,
		FilePath:  path,
		Sheet:     sheet,
		State:     StateUploaded,
		UpdatedAt: time.Now(),
	}
	w.sessions[userID] = s
	return s
}

// SetSheet records the sheet chosen for a multi-sheet workbook. Only valid
// before headers were served.
func (w *Wizard) SetSheet(userID, sheet string) error {
	return w.update(userID, StateUploaded, func(s *WizardSession) {
		s.Sheet = sheet
	})
}

// MarkHeadersExtracted advances past the header preview. Re-serving the
// mapping form is allowed (navigating back is common).
func (w *Wizard) MarkHeadersExtracted(userID string) error {
	return w.advance(userID, StateHeadersExtracted, nil)
}

// SetMapping stores the submitted column mapping and advances to Mapped.
func (w *Wizard) SetMapping(userID string, m ColumnMapping) error {
	return w.advance(userID, StateMapped, func(s *WizardSession) {
		s.Mapping = m
	})
}

// MarkChannelsExtracted advances after the distinct-channel preview.
func (w *Wizard) MarkChannelsExtracted(userID string) error {
	return w.advance(userID, StateChannelsExtracted, nil)
}

// SetHomologation stores the channel table and advances to Homologated.
func (w *Wizard) SetHomologation(userID string, t HomologationTable) error {
	return w.advance(userID, StateHomologated, func(s *WizardSession) {
		s.Channels = t
	})
}

// SetInvalidSKUs records the reconciliation result and advances to
// SkusChecked, whether or not corrections will be needed. Arriving straight
// from Mapped is only legal when no channel column was mapped; otherwise
// homologation is still pending.
func (w *Wizard) SetInvalidSKUs(userID string, invalid []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[userID]
	if !ok {
		return ErrNoSession
	}
	if s.State == StateMapped && s.Mapping.HasChannel() {
		return fmt.Errorf("%w: homologation pending for the mapped channel column", ErrBadTransition)
	}
	if !allowed(s.State, StateSkusChecked) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, s.State, StateSkusChecked)
	}
	s.InvalidSKUs = invalid
	s.State = StateSkusChecked
	s.UpdatedAt = time.Now()
	return nil
}

// SetCorrections stores the user's SKU corrections.
func (w *Wizard) SetCorrections(userID string, t CorrectionTable) error {
	return w.advance(userID, StateCorrectionsCollected, func(s *WizardSession) {
		s.Corrections = t
	})
}

// Snapshot returns a copy of the user's session for read-only use outside the
// lock.
func (w *Wizard) Snapshot(userID string) (WizardSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[userID]
	if !ok {
		return WizardSession{}, ErrNoSession
	}
	return *s, nil
}

// Complete tears the session down after a successful commit: the temp file is
// deleted and the session destroyed.
func (w *Wizard) Complete(userID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[userID]
	if !ok {
		return ErrNoSession
	}
	if err := commitGuard(s); err != nil {
		return err
	}
	w.store.Remove(s.FilePath)
	delete(w.sessions, userID)
	return nil
}

// commitGuard validates the jump to Committed. The skip past the correction
// step is only legal when reconciliation found nothing to correct.
func commitGuard(s *WizardSession) error {
	if s.State == StateSkusChecked && len(s.InvalidSKUs) > 0 {
		return fmt.Errorf("%w: invalid SKUs pending correction", ErrBadTransition)
	}
	if !allowed(s.State, StateCommitted) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, s.State, StateCommitted)
	}
	return nil
}

// Cancel abandons the import from any non-terminal state and releases the
// temp file deterministically.
func (w *Wizard) Cancel(userID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[userID]
	if !ok {
		return ErrNoSession
	}
	w.store.Remove(s.FilePath)
	delete(w.sessions, userID)
	return nil
}

// ExpireStale cancels sessions idle past the TTL and deletes their files.
// Driven by the cron service; returns how many were expired.
func (w *Wizard) ExpireStale() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	cutoff := time.Now().Add(-w.ttl)
	n := 0
	for userID, s := range w.sessions {
		if s.UpdatedAt.Before(cutoff) {
			w.store.Remove(s.FilePath)
			delete(w.sessions, userID)
			n++
		}
	}
	return n
}

// advance applies a guarded state transition plus an optional mutation.
func (w *Wizard) advance(userID string, to State, mutate func(*WizardSession)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[userID]
	if !ok {
		return ErrNoSession
	}
	if !allowed(s.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, s.State, to)
	}
	if mutate != nil {
		mutate(s)
	}
	s.State = to
	s.UpdatedAt = time.Now()
	return nil
}

// update mutates a session without changing state, requiring it to be in the
// given state.
func (w *Wizard) update(userID string, in State, mutate func(*WizardSession)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[userID]
	if !ok {
		return ErrNoSession
	}
	if s.State != in {
		return fmt.Errorf("%w: expected %s, in %s", ErrBadTransition, in, s.State)
	}
	mutate(s)
	s.UpdatedAt = time.Now()
	return nil
}

func allowed(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
