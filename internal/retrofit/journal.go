package retrofit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/markercraft/internal/marker"
)

// JournalEntry records a replace that has removed the original marker but may not
// have re-added it yet.
type JournalEntry struct {
	ID       string        `yaml:"id"`
	Timeline string        `yaml:"timeline"`
	Original marker.Marker `yaml:"original"`
	NewNote  string        `yaml:"new_note"`
	Started  time.Time     `yaml:"started"`
}

// Replacement is the marker the entry intends to leave on the timeline.
func (e JournalEntry) Replacement() marker.Marker {
	m := e.Original
	m.Note = e.NewNote
	return m
}

// Journal is a YAML file of pending replaces. Every mutation is flushed to disk.
type Journal struct {
	path    string
	Entries []JournalEntry `yaml:"pending"`
}

// OpenJournal loads the journal at path; a missing file is an empty journal.
func OpenJournal(path string) (*Journal, error) {
	j := &Journal{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	if err := yaml.Unmarshal(data, j); err != nil {
		return nil, fmt.Errorf("parse journal %s: %w", path, err)
	}
	return j, nil
}

// Begin records a replace before the original marker is removed.
func (j *Journal) Begin(timeline string, original marker.Marker, newNote string) (string, error) {
	e := JournalEntry{
		ID:       uuid.NewString(),
		Timeline: timeline,
		Original: original,
		NewNote:  newNote,
		Started:  time.Now().UTC(),
	}
	j.Entries = append(j.Entries, e)
	return e.ID, j.flush()
}

// Done clears an entry once the replacement is on the timeline.
func (j *Journal) Done(id string) error {
	for i, e := range j.Entries {
		if e.ID == id {
			j.Entries = append(j.Entries[:i], j.Entries[i+1:]...)
			return j.flush()
		}
	}
	return nil
}

// Pending returns a copy of the open entries.
func (j *Journal) Pending() []JournalEntry {
	out := make([]JournalEntry, len(j.Entries))
	copy(out, j.Entries)
	return out
}

func (j *Journal) flush() error {
	if len(j.Entries) == 0 {
		if err := os.Remove(j.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	data, err := yaml.Marshal(j)
	if err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0644)
}
