// Package dialogue is the per-chat state machine that collects structured
// records over several user turns. Each dialogue kind is a fixed table of
// steps; invalid input re-prompts the same step, a case-insensitive "skip"
// short-circuits optional steps, and cancellation discards the draft
// unconditionally.
package dialogue

import (
	"context"
	"log"
	"strings"
	"sync"

	"lease-recert-bot/internal/models"
	"lease-recert-bot/internal/store"
)

// Store is the persistence contract the engine drives on completion.
type Store interface {
	CreateLease(ctx context.Context, create *models.Lease) (*models.Lease, error)
	ListLeasesByChat(ctx context.Context, chatID int64) ([]*models.Lease, error)
	DeleteLease(ctx context.Context, id, chatID int64) (bool, error)
	CreateVendor(ctx context.Context, create *models.Vendor) (*models.Vendor, error)
	ListVendors(ctx context.Context, find *store.FindVendor) ([]*models.Vendor, error)
	UpdateVendor(ctx context.Context, update *store.UpdateVendor) (*models.Vendor, error)
	CreateVendorDetail(ctx context.Context, chatID int64, create *models.VendorDetail) (*models.VendorDetail, error)
}

const (
	skipToken = "skip"

	msgRequired     = "This field is required and cannot be skipped. Please enter a value:"
	msgStoreFailure = "Something went wrong saving your data. Please try again."
	msgCancelled    = "Operation cancelled."
)

// step is one prompt/validate/apply unit of a dialogue.
type step struct {
	// prompt renders the question for this step.
	prompt func(s *Session) string
	// optional reports whether the skip sentinel is accepted here.
	optional func(s *Session) bool
	// validate normalizes raw input; a non-nil error re-prompts without
	// advancing. Nil means any non-empty text is accepted.
	validate func(s *Session, input string) (string, error)
	// apply records the validated value (empty string for a skip) on the
	// draft.
	apply func(s *Session, value string)
	// next returns the following step index, stepDone to complete. Nil means
	// the next step in order.
	next func(s *Session) int
}

const stepDone = -1

// flow is a complete dialogue definition.
type flow struct {
	// start prepares the session (snapshots, drafts) and returns the opening
	// reply. begin=false means no session is created and the reply stands
	// alone.
	start func(ctx context.Context, e *Engine, s *Session) (reply string, begin bool, err error)
	steps []step
	// complete runs the single persistence action for the dialogue. keep=true
	// leaves the (possibly re-targeted) session in place, used by the
	// vendor -> housing-authority detail chain.
	complete func(ctx context.Context, e *Engine, s *Session) (reply string, keep bool, err error)
}

var flows = map[Kind]*flow{
	KindLeaseAdd:     leaseAddFlow,
	KindLeaseRemove:  leaseRemoveFlow,
	KindVendorAdd:    vendorAddFlow,
	KindVendorDetail: vendorDetailFlow,
	KindVendorEdit:   vendorEditFlow,
}

// Engine runs dialogues. Turns for the same chat are serialized with a
// per-chat mutex; different chats proceed in parallel.
type Engine struct {
	store    Store
	sessions SessionStore

	mu        sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

// New creates an engine over the given store and session store.
func New(st Store, sessions SessionStore) *Engine {
	return &Engine{
		store:     st,
		sessions:  sessions,
		chatLocks: make(map[int64]*sync.Mutex),
	}
}

func (e *Engine) chatLock(chatID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.chatLocks[chatID]
	if !ok {
		l = &sync.Mutex{}
		e.chatLocks[chatID] = l
	}
	return l
}

// Active reports whether the chat has a dialogue in flight.
func (e *Engine) Active(chatID int64) bool {
	_, ok := e.sessions.Get(chatID)
	return ok
}

// Start begins a dialogue of the given kind, replacing any active one.
func (e *Engine) Start(ctx context.Context, kind Kind, chatID int64) string {
	l := e.chatLock(chatID)
	l.Lock()
	defer l.Unlock()

	f, ok := flows[kind]
	if !ok {
		return "Unknown operation."
	}

	// No dialogue stacking: a new start always replaces the old session.
	e.sessions.Delete(chatID)

	s := &Session{ChatID: chatID, Kind: kind}
	reply, begin, err := f.start(ctx, e, s)
	if err != nil {
		log.Printf("dialogue: start %s for chat %d: %v", kind, chatID, err)
		return msgStoreFailure
	}
	if begin {
		e.sessions.Put(s)
	}
	return reply
}

// Input feeds one user message into the chat's active dialogue. The second
// return is false when no dialogue is active, leaving the caller free to
// treat the message as a stray.
func (e *Engine) Input(ctx context.Context, chatID int64, text string) (string, bool) {
	l := e.chatLock(chatID)
	l.Lock()
	defer l.Unlock()

	s, ok := e.sessions.Get(chatID)
	if !ok {
		return "", false
	}
	f := flows[s.Kind]
	st := f.steps[s.Step]
	input := strings.TrimSpace(text)

	if strings.EqualFold(input, skipToken) {
		if st.optional == nil || !st.optional(s) {
			return msgRequired, true
		}
		st.apply(s, "")
	} else {
		value := input
		if st.validate != nil {
			v, err := st.validate(s, input)
			if err != nil {
				// Re-emit the step's question with the error; the index does
				// not advance.
				return err.Error(), true
			}
			value = v
		}
		st.apply(s, value)
	}

	next := s.Step + 1
	if st.next != nil {
		next = st.next(s)
	}
	if next != stepDone && next < len(f.steps) {
		s.Step = next
		e.sessions.Put(s)
		return f.steps[next].prompt(s), true
	}

	reply, keep, err := f.complete(ctx, e, s)
	if err != nil {
		// Leave the session on the same step so the user can retry after a
		// transient store failure.
		log.Printf("dialogue: complete %s for chat %d: %v", s.Kind, chatID, err)
		e.sessions.Put(s)
		return msgStoreFailure, true
	}
	if keep {
		e.sessions.Put(s)
	} else {
		e.sessions.Delete(chatID)
	}
	return reply, true
}

// Cancel discards the chat's active dialogue, if any. No partial data is
// persisted.
func (e *Engine) Cancel(chatID int64) (string, bool) {
	l := e.chatLock(chatID)
	l.Lock()
	defer l.Unlock()

	_, had := e.sessions.Get(chatID)
	e.sessions.Delete(chatID)
	return msgCancelled, had
}

func promptText(text string) func(*Session) string {
	return func(*Session) string { return text }
}

func alwaysOptional(*Session) bool { return true }
