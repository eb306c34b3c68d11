// internal/orderstore/store_test.go
package orderstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/user/orderdesk/internal/types"
	"github.com/user/orderdesk/internal/usage"
)

func testOrder(sessionID string) types.Order {
	return types.Order{
		SessionID: sessionID,
		Items: []types.CartLine{
			{Name: "Chips", Quantity: 2, UnitPrice: 10, LineTotal: 20},
		},
		Total:     20,
		Timestamp: "2026-08-31T12:00:00Z",
		Status:    "pending",
	}
}

func TestSaveWritesMasterAndSessionFiles(t *testing.T) {
	dir := t.TempDir()
	meter := usage.NewMeter(usage.Rates{})
	store := New(dir, meter)

	id, err := store.Save(testOrder("s1"))
	if err != nil {
		t.Fatal(err)
	}
	if id != "s1@2026-08-31T12:00:00Z" {
		t.Errorf("unexpected record id %q", id)
	}

	// Master log: header + one row.
	f, err := os.Open(filepath.Join(dir, "orders.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "session_id" || rows[0][4] != "status" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "s1" || rows[1][3] != "20" || rows[1][4] != "pending" {
		t.Errorf("unexpected master row: %v", rows[1])
	}

	// Per-session file: header, line item, TOTAL row.
	sf, err := os.Open(filepath.Join(dir, "s1.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer sf.Close()
	sessionRows, err := csv.NewReader(sf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessionRows) != 3 {
		t.Fatalf("expected 3 session rows, got %d", len(sessionRows))
	}
	if sessionRows[1][0] != "Chips" || sessionRows[1][1] != "2" || sessionRows[1][2] != "10" {
		t.Errorf("unexpected line item row: %v", sessionRows[1])
	}
	total := sessionRows[2]
	if total[0] != "TOTAL" || total[1] != "" || total[2] != "" || total[3] != "20" {
		t.Errorf("unexpected TOTAL row: %v", total)
	}

	if meter.Snapshot().OrdersToday != 1 {
		t.Error("expected order counter incremented on save")
	}
}

func TestSaveAppendsWithoutDuplicateHeader(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, nil)

	if _, err := store.Save(testOrder("s1")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(testOrder("s2")); err != nil {
		t.Fatal(err)
	}

	orders, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].SessionID != "s1" || orders[1].SessionID != "s2" {
		t.Errorf("unexpected order: %+v", orders)
	}
}

func TestSaveRejectsEmptyItems(t *testing.T) {
	store := New(t.TempDir(), nil)
	order := testOrder("s1")
	order.Items = nil
	if _, err := store.Save(order); err == nil {
		t.Fatal("expected error for order with no items")
	}
}

func TestSaveRejectsTraversingSessionIDs(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "orders")
	store := New(root, nil)

	bad := []string{
		"",
		".",
		"..",
		"../escaped",
		"a/b",
		`a\b`,
		"../../etc/passwd",
	}
	for _, id := range bad {
		t.Run(fmt.Sprintf("id=%q", id), func(t *testing.T) {
			if _, err := store.Save(testOrder(id)); err == nil {
				t.Fatalf("expected error for session id %q", id)
			}
		})
	}

	// Nothing may have been written above the store root.
	if _, err := os.Stat(filepath.Join(parent, "escaped.csv")); !os.IsNotExist(err) {
		t.Errorf("session file written outside the store root: %v", err)
	}
	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected saves must not create files, found %v", entries)
	}
}

func TestSaveUnwritableDirPropagatesError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	store := New(filepath.Join(dir, "orders"), nil)
	if _, err := store.Save(testOrder("s1")); err == nil {
		t.Fatal("expected I/O error to propagate")
	}
}

func TestConcurrentSavesDoNotCorruptMasterLog(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, nil)

	const sessions = 20
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			order := testOrder(fmt.Sprintf("s%d", n))
			if _, err := store.Save(order); err != nil {
				t.Errorf("save s%d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	orders, err := store.List()
	if err != nil {
		t.Fatalf("master log corrupted: %v", err)
	}
	if len(orders) != sessions {
		t.Fatalf("expected %d orders, got %d", sessions, len(orders))
	}
	seen := make(map[string]bool)
	for _, o := range orders {
		if seen[o.SessionID] {
			t.Errorf("duplicate row for %s", o.SessionID)
		}
		seen[o.SessionID] = true
		if len(o.Items) != 1 || o.Total != 20 {
			t.Errorf("row for %s not independently recoverable: %+v", o.SessionID, o)
		}
	}
}

func TestSessionFileOverwrittenOnResave(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, nil)

	if _, err := store.Save(testOrder("s1")); err != nil {
		t.Fatal(err)
	}

	updated := testOrder("s1")
	updated.Items = append(updated.Items, types.CartLine{Name: "Samosa", Quantity: 1, UnitPrice: 15, LineTotal: 15})
	updated.Total = 35
	if _, err := store.Save(updated); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "s1.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// header + 2 items + TOTAL
	if len(rows) != 4 {
		t.Fatalf("expected session file to be replaced wholesale, got %d rows", len(rows))
	}
	if rows[3][3] != "35" {
		t.Errorf("expected updated total 35, got %v", rows[3])
	}
}
