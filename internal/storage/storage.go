// Package storage remembers which backend reminders have already been
// announced, so the watch loop only reports new ones.
//
// This package implements a two-tier storage system:
//  1. CSV file for persistence (survives restarts)
//  2. In-memory index for O(1) "is new?" checks
//
// All operations are protected by a mutex.
package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// bufferSize for buffered CSV writes (64KB).
const bufferSize = 64 * 1024

// Record is one announced reminder.
//
// Fields:
//   - ReminderID: Backend reminder record id
//   - GrievanceID: Tracking id the reminder was about
//   - Department: Department that was reminded
//   - MessageID: Telegram message id of the announcement, if any
type Record struct {
	ReminderID  string
	GrievanceID string
	Department  string
	MessageID   string
}

// Storage is a thread-safe set of announced reminders backed by a CSV
// file.
//
// Data flow:
//
//	Read:   CSV -> load into map -> serve from map
//	Write:  append to CSV -> update map
//	Retain: drop from map -> rewrite entire CSV
type Storage struct {
	mu      sync.Mutex
	path    string
	records map[string]Record
	logger  *zap.Logger
}

// New creates a Storage at path and loads any existing records. A
// missing file is normal on first run.
func New(path string, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Storage{
		path:    path,
		records: make(map[string]Record),
		logger:  logger,
	}
	if err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadFromFile reads ReminderID, GrievanceID, Department, MessageID
// rows. A header row and short rows are tolerated.
func (s *Storage) loadFromFile() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no reminder state file yet", zap.String("path", s.path))
			return nil
		}
		return fmt.Errorf("open reminder state: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read reminder state: %w", err)
	}

	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "reminder_id" {
			continue
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		r := Record{ReminderID: row[0]}
		if len(row) >= 2 {
			r.GrievanceID = row[1]
		}
		if len(row) >= 3 {
			r.Department = row[2]
		}
		if len(row) >= 4 {
			r.MessageID = row[3]
		}
		s.records[r.ReminderID] = r
	}

	s.logger.Debug("loaded announced reminders", zap.Int("count", len(s.records)))
	return nil
}

// IsNew reports whether reminderID has not been recorded yet.
func (s *Storage) IsNew(reminderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[reminderID]
	return !ok
}

// Get returns the stored record for reminderID.
func (s *Storage) Get(reminderID string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[reminderID]
	return r, ok
}

// Len returns the number of stored records.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// SaveMultiple appends records to the file in one write, then indexes
// them. The index is only updated once the write succeeded.
func (s *Storage) SaveMultiple(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open reminder state: %w", err)
	}
	defer file.Close()

	if err := writeRecords(file, records); err != nil {
		return err
	}

	for _, r := range records {
		s.records[r.ReminderID] = r
	}
	return nil
}

// Retain keeps only the records whose ids are in keep and rewrites the
// file. The backend only lists recent reminders, so older ids can be
// forgotten without being announced twice.
//
// Returns the number of records dropped.
func (s *Storage) Retain(keep []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(keep))
	for _, id := range keep {
		wanted[id] = true
	}

	removed := 0
	for id := range s.records {
		if !wanted[id] {
			delete(s.records, id)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.rewriteFile()
}

// rewriteFile replaces the file with the in-memory records, sorted by
// id. Caller must hold the mutex.
func (s *Storage) rewriteFile() error {
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("rewrite reminder state: %w", err)
	}
	defer file.Close()

	records := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ReminderID < records[j].ReminderID })
	return writeRecords(file, records)
}

func writeRecords(file *os.File, records []Record) error {
	buffered := bufio.NewWriterSize(file, bufferSize)
	writer := csv.NewWriter(buffered)
	for _, r := range records {
		if err := writer.Write([]string{r.ReminderID, r.GrievanceID, r.Department, r.MessageID}); err != nil {
			return fmt.Errorf("write reminder state: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write reminder state: %w", err)
	}
	return buffered.Flush()
}
