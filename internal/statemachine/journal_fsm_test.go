package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ligna-erp/ligna-api/internal/models"
)

func TestJournalFSMPost(t *testing.T) {
	entry := &models.JournalEntry{ID: 1}
	jfsm := NewJournalFSM(entry)

	assert.Equal(t, JournalStateUnposted, jfsm.Current())

	err := jfsm.Post(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, JournalStatePosted, jfsm.Current())
	assert.True(t, entry.Posted)
	assert.NotNil(t, entry.PostedAt)
}

func TestJournalFSMPostTwice(t *testing.T) {
	entry := &models.JournalEntry{ID: 1}
	jfsm := NewJournalFSM(entry)

	assert.NoError(t, jfsm.Post(context.Background()))

	err := jfsm.Post(context.Background())
	assert.Error(t, err)
}

func TestJournalFSMInitialStateFromEntry(t *testing.T) {
	entry := &models.JournalEntry{ID: 1, Posted: true}
	jfsm := NewJournalFSM(entry)

	assert.Equal(t, JournalStatePosted, jfsm.Current())
	assert.Error(t, jfsm.Post(context.Background()))
}
