package savegame

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	MinSlot = 1
	MaxSlot = 3
)

var ErrInvalidSlot = fmt.Errorf("save slot must be between %d and %d", MinSlot, MaxSlot)

// ValidSlot reports whether slot names a save file.
func ValidSlot(slot int) bool {
	return slot >= MinSlot && slot <= MaxSlot
}

// FileName returns the file name used for a slot.
func FileName(slot int) string {
	return fmt.Sprintf("saved_game_data_%d.txt", slot)
}

// SlotStore keeps saved games as one-line files in a directory.
type SlotStore struct {
	dir string
}

// NewSlotStore returns a store rooted at dir. The directory is created on
// first write.
func NewSlotStore(dir string) *SlotStore {
	return &SlotStore{dir: dir}
}

// Dir returns the directory holding the slot files.
func (s *SlotStore) Dir() string {
	return s.dir
}

func (s *SlotStore) path(slot int) string {
	return filepath.Join(s.dir, FileName(slot))
}

// Write replaces the contents of a slot. The file is written to a
// temporary name and renamed into place so readers never see a partial
// save.
func (s *SlotStore) Write(slot int, rec *Record) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("write slot %d: %w", slot, ErrInvalidSlot)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create saves directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".saved_game_data_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp save file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(Encode(rec) + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close save file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(slot)); err != nil {
		return fmt.Errorf("failed to move save file into place: %w", err)
	}
	return nil
}

// Read returns the game saved in a slot. ok is false when the slot is out
// of range, missing, empty or unreadable; the cases are not distinguished.
func (s *SlotStore) Read(slot int) (rec *Record, ok bool) {
	if !ValidSlot(slot) {
		return nil, false
	}

	logger := log.WithFields(log.Fields{"slot": slot, "dir": s.dir})

	f, err := os.Open(s.path(slot))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.WithError(err).Debug("save slot unreadable")
		}
		return nil, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			logger.WithError(err).Debug("save slot unreadable")
		}
		return nil, false
	}
	line := scanner.Text()
	if line == "" {
		return nil, false
	}

	rec, ok = Decode(line)
	if !ok {
		logger.Debug("save slot does not hold a valid game")
	}
	return rec, ok
}

// Delete removes a slot's file. Deleting an empty slot is not an error.
func (s *SlotStore) Delete(slot int) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("delete slot %d: %w", slot, ErrInvalidSlot)
	}
	if err := os.Remove(s.path(slot)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}

// SlotInfo summarizes one save slot.
type SlotInfo struct {
	Slot      int       `json:"slot"`
	Occupied  bool      `json:"occupied"`
	SavedAt   time.Time `json:"saved_at,omitempty"`
	Positions []int     `json:"positions,omitempty"`
	DeckSize  int       `json:"deck_size,omitempty"`
}

// List describes every slot in order.
func (s *SlotStore) List() []SlotInfo {
	infos := make([]SlotInfo, 0, MaxSlot)
	for slot := MinSlot; slot <= MaxSlot; slot++ {
		info := SlotInfo{Slot: slot}
		if rec, ok := s.Read(slot); ok {
			info.Occupied = true
			info.DeckSize = len(rec.Deck)
			for _, p := range rec.Players {
				info.Positions = append(info.Positions, p.Position)
			}
			if st, err := os.Stat(s.path(slot)); err == nil {
				info.SavedAt = st.ModTime()
			}
		}
		infos = append(infos, info)
	}
	return infos
}
