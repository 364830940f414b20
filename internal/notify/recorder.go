package notify

import "sync"

// Entry is the current state of one recorded notification.
type Entry struct {
	ID      string  `json:"id"`
	Message Message `json:"message"`
	Variant string  `json:"variant"`
	Updates int     `json:"updates"`
}

// DefaultRecorderLimit is how many notifications a Recorder keeps.
const DefaultRecorderLimit = 50

// Recorder keeps the most recent notifications in memory, optionally
// forwarding to another Notifier. Updates to an evicted handle are dropped.
type Recorder struct {
	mu      sync.Mutex
	next    Notifier
	limit   int
	entries []Entry
	index   map[string]int
}

// NewRecorder returns a Recorder forwarding to next (may be nil) that keeps
// the last DefaultRecorderLimit notifications.
func NewRecorder(next Notifier) *Recorder {
	return NewRecorderWithLimit(next, DefaultRecorderLimit)
}

// NewRecorderWithLimit is NewRecorder with an explicit capacity. A limit
// below 1 keeps a single entry.
func NewRecorderWithLimit(next Notifier, limit int) *Recorder {
	if limit < 1 {
		limit = 1
	}
	return &Recorder{next: next, limit: limit, index: make(map[string]int)}
}

func (r *Recorder) Create(msg Message) Handle {
	var h Handle
	if r.next != nil {
		h = r.next.Create(msg)
	} else {
		h = newHandle()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.index[h.ID] = len(r.entries)
	r.entries = append(r.entries, Entry{ID: h.ID, Message: msg, Variant: msg.Variant.String()})
	if drop := len(r.entries) - r.limit; drop > 0 {
		for _, e := range r.entries[:drop] {
			delete(r.index, e.ID)
		}
		r.entries = append(r.entries[:0], r.entries[drop:]...)
		for i, e := range r.entries {
			r.index[e.ID] = i
		}
	}
	return h
}

func (r *Recorder) Update(h Handle, msg Message) {
	if r.next != nil {
		r.next.Update(h, msg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[h.ID]
	if !ok {
		return
	}
	r.entries[i].Message = msg
	r.entries[i].Variant = msg.Variant.String()
	r.entries[i].Updates++
}

// Entries returns a copy of every notification, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}
