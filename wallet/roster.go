package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// RosterFile is the roster's file name inside the data directory.
const RosterFile = "roster.json"

// Label names a participant index.
type Label struct {
	Name  string `json:"name"`
	Index uint32 `json:"index"`
}

// Roster maps human labels to participant indices. Removed labels never
// free their index.
type Roster struct {
	Labels    []Label `json:"labels"`
	NextIndex uint32  `json:"next_index"`
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{Labels: []Label{}}
}

// Validate checks a decoded roster for duplicate names or indices and for
// a NextIndex that would reuse an assigned index.
func (r *Roster) Validate() error {
	names := make(map[string]bool, len(r.Labels))
	indices := make(map[uint32]string, len(r.Labels))
	for _, l := range r.Labels {
		if names[l.Name] {
			return fmt.Errorf("%w: duplicate %q", ErrLabelExists, l.Name)
		}
		names[l.Name] = true
		if prev, ok := indices[l.Index]; ok {
			return fmt.Errorf("wallet: labels %q and %q share index %d", prev, l.Name, l.Index)
		}
		indices[l.Index] = l.Name
		if l.Index > MaxIndex {
			return fmt.Errorf("%w: label %q", ErrIndexOutOfRange, l.Name)
		}
		if l.Index >= r.NextIndex {
			return fmt.Errorf("wallet: next index %d would reuse %d (%q)", r.NextIndex, l.Index, l.Name)
		}
	}
	return nil
}

func validLabel(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidLabel)
	}
	if _, err := strconv.ParseUint(name, 10, 32); err == nil {
		return fmt.Errorf("%w: %q looks like an index", ErrInvalidLabel, name)
	}
	return nil
}

// Add assigns name to the next free index.
func (r *Roster) Add(name string) (Label, error) {
	if err := validLabel(name); err != nil {
		return Label{}, err
	}
	if _, err := r.Lookup(name); err == nil {
		return Label{}, fmt.Errorf("%w: %q", ErrLabelExists, name)
	}
	if r.NextIndex > MaxIndex {
		return Label{}, ErrIndexOutOfRange
	}
	l := Label{Name: name, Index: r.NextIndex}
	r.Labels = append(r.Labels, l)
	r.NextIndex++
	return l, nil
}

// Lookup finds name.
func (r *Roster) Lookup(name string) (Label, error) {
	for _, l := range r.Labels {
		if l.Name == name {
			return l, nil
		}
	}
	return Label{}, fmt.Errorf("%w: %q", ErrLabelNotFound, name)
}

// Resolve accepts a label or a decimal participant index.
func (r *Roster) Resolve(ref string) (uint32, error) {
	if n, err := strconv.ParseUint(ref, 10, 32); err == nil {
		if n > MaxIndex {
			return 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, n)
		}
		return uint32(n), nil
	}
	l, err := r.Lookup(ref)
	if err != nil {
		return 0, err
	}
	return l.Index, nil
}

// Rename changes a label's name.
func (r *Roster) Rename(oldName, newName string) error {
	if err := validLabel(newName); err != nil {
		return err
	}
	if _, err := r.Lookup(newName); err == nil {
		return fmt.Errorf("%w: %q", ErrLabelExists, newName)
	}
	for i := range r.Labels {
		if r.Labels[i].Name == oldName {
			r.Labels[i].Name = newName
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrLabelNotFound, oldName)
}

// Remove drops name; its index stays retired.
func (r *Roster) Remove(name string) error {
	for i := range r.Labels {
		if r.Labels[i].Name == name {
			r.Labels = append(r.Labels[:i], r.Labels[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrLabelNotFound, name)
}

// RosterPath returns the roster file path inside dataDir.
func RosterPath(dataDir string) string { return filepath.Join(dataDir, RosterFile) }

// LoadRoster reads path; a missing file yields an empty roster.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewRoster(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("wallet: read roster: %w", err)
	}
	r := NewRoster()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("wallet: parse roster: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// SaveRoster writes r to path.
func SaveRoster(path string, r *Roster) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("wallet: encode roster: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("wallet: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("wallet: write roster: %w", err)
	}
	return nil
}
