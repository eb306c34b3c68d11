// internal/orderstore/store.go
package orderstore

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/user/orderdesk/internal/types"
	"github.com/user/orderdesk/internal/usage"
)

var masterHeader = []string{"session_id", "timestamp", "items", "total", "status"}

var sessionHeader = []string{"item", "quantity", "price", "total"}

// Store persists completed orders as CSV files under a root directory:
// a shared append-only master log (orders.csv) plus one file per session
// holding that session's line items and a trailing TOTAL row. A single
// mutex serializes master-log appends so concurrent saves never interleave
// partially written rows.
type Store struct {
	root  string
	meter *usage.Meter
	mu    sync.Mutex
}

// New creates a Store rooted at dir. The meter's order counter is bumped on
// every successful save; pass nil to disable metering.
func New(dir string, meter *usage.Meter) *Store {
	return &Store{root: dir, meter: meter}
}

func (s *Store) masterPath() string {
	return filepath.Join(s.root, "orders.csv")
}

func (s *Store) sessionPath(sessionID string) string {
	return filepath.Join(s.root, sessionID+".csv")
}

// ValidSessionID reports whether id is safe to use as a file name under the
// store root. Session ids come straight from clients, so anything carrying a
// path separator or a dot component must not reach sessionPath.
func ValidSessionID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

// Save appends the order to the master log and writes the per-session
// record, returning the stable record id. I/O failures propagate: silent
// loss of a completed order is unacceptable.
func (s *Store) Save(order types.Order) (string, error) {
	if !ValidSessionID(order.SessionID) {
		return "", fmt.Errorf("invalid session id %q", order.SessionID)
	}
	if len(order.Items) == 0 {
		return "", fmt.Errorf("order has no items")
	}
	if order.Status == "" {
		order.Status = "pending"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create orders dir: %w", err)
	}
	if err := s.appendMaster(order); err != nil {
		return "", err
	}
	if err := s.writeSessionFile(order); err != nil {
		return "", err
	}

	if s.meter != nil {
		s.meter.RecordOrder()
	}
	return order.SessionID + "@" + order.Timestamp, nil
}

// appendMaster adds one row to orders.csv, writing the header first when the
// file is new. Caller must hold s.mu.
func (s *Store) appendMaster(order types.Order) error {
	_, statErr := os.Stat(s.masterPath())
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.masterPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open master log: %w", err)
	}
	defer f.Close()

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(masterHeader); err != nil {
			return fmt.Errorf("write master header: %w", err)
		}
	}
	row := []string{
		order.SessionID,
		order.Timestamp,
		string(items),
		formatAmount(order.Total),
		order.Status,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write master row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush master log: %w", err)
	}
	return nil
}

// writeSessionFile overwrites the session's record with its line items and a
// computed total row. Caller must hold s.mu.
func (s *Store) writeSessionFile(order types.Order) error {
	f, err := os.Create(s.sessionPath(order.SessionID))
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sessionHeader); err != nil {
		return fmt.Errorf("write session header: %w", err)
	}
	for _, item := range order.Items {
		row := []string{
			item.Name,
			strconv.Itoa(item.Quantity),
			formatAmount(item.UnitPrice),
			formatAmount(item.LineTotal),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write session row: %w", err)
		}
	}
	if err := w.Write([]string{"TOTAL", "", "", formatAmount(order.Total)}); err != nil {
		return fmt.Errorf("write total row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush session file: %w", err)
	}
	return nil
}

// List reads every order back from the master log, oldest first. A missing
// log means no orders yet.
func (s *Store) List() ([]types.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.masterPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open master log: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read master log: %w", err)
	}

	var orders []types.Order
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) != len(masterHeader) {
			return nil, fmt.Errorf("master log row %d has %d columns", i, len(row))
		}
		var items []types.CartLine
		if err := json.Unmarshal([]byte(row[2]), &items); err != nil {
			return nil, fmt.Errorf("decode items in row %d: %w", i, err)
		}
		total, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("parse total in row %d: %w", i, err)
		}
		orders = append(orders, types.Order{
			SessionID: row[0],
			Timestamp: row[1],
			Items:     items,
			Total:     total,
			Status:    row[4],
		})
	}
	return orders, nil
}

// formatAmount renders a money value without trailing zeros, matching the
// way totals appear in the log.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
