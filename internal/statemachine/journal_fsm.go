package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"github.com/ligna-erp/ligna-api/internal/models"
)

// Journal entry lifecycle states. Posting happens exactly once; there is
// no unpost event.
const (
	JournalStateUnposted = "unposted"
	JournalStatePosted   = "posted"
)

// JournalFSM wraps a journal entry with its posting state machine
type JournalFSM struct {
	entry *models.JournalEntry
	fsm   *fsm.FSM
}

// NewJournalFSM creates a new journal entry state machine
func NewJournalFSM(entry *models.JournalEntry) *JournalFSM {
	state := JournalStateUnposted
	if entry.Posted {
		state = JournalStatePosted
	}

	jfsm := &JournalFSM{
		entry: entry,
	}

	jfsm.fsm = fsm.NewFSM(
		state,
		fsm.Events{
			// unposted → posted
			{Name: "post", Src: []string{JournalStateUnposted}, Dst: JournalStatePosted},
		},
		fsm.Callbacks{},
	)

	return jfsm
}

// Post transitions the entry to posted and stamps it
func (j *JournalFSM) Post(ctx context.Context) error {
	if !j.entry.MayPost() {
		return fmt.Errorf("entry %d is already posted", j.entry.ID)
	}

	if err := j.fsm.Event(ctx, "post"); err != nil {
		return fmt.Errorf("failed to post entry: %w", err)
	}

	now := time.Now()
	j.entry.Posted = true
	j.entry.PostedAt = &now
	return nil
}

// Current returns the current state
func (j *JournalFSM) Current() string {
	return j.fsm.Current()
}
