package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	ports "gagyebu/internal/sheets"
)

// Store is an in-process spreadsheet used when no Google spreadsheet is
// configured and in tests.
type Store struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

var (
	_ ports.ValueReader = (*Store)(nil)
	_ ports.RowAppender = (*Store)(nil)
)

func New() *Store {
	return &Store{sheets: make(map[string][][]string)}
}

// Seed replaces the content of sheet.
func (s *Store) Seed(sheet string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = cloneRows(rows)
}

// ReadValues returns a copy of the rows of sheet.
func (s *Store) ReadValues(_ context.Context, sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	return cloneRows(rows), nil
}

// AppendRows stores the rows and returns a synthetic row reference.
func (s *Store) AppendRows(_ context.Context, sheet string, rows [][]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.sheets[sheet]) + 1
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strings.TrimSpace(fmt.Sprint(v))
		}
		s.sheets[sheet] = append(s.sheets[sheet], cells)
	}
	return fmt.Sprintf("mem:%s!%d:%d", sheet, start, len(s.sheets[sheet])), nil
}

func cloneRows(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = append([]string(nil), row...)
	}
	return out
}
