package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ParseInventoryLine builds an InventoryRecord from one decoder inventory
// line. The record id is the first colon-separated field; the reference time
// is taken from a "d=YYYYMMDDHH" field when present. The line itself becomes
// the inventory buffer unchanged.
func ParseInventoryLine(line string) (InventoryRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	id, _, found := strings.Cut(line, ":")
	id = strings.TrimSpace(id)
	if !found || id == "" {
		return InventoryRecord{}, fmt.Errorf("inventory line %q has no record id", line)
	}

	rec := InventoryRecord{Record: id, Inventory: line}
	for field := range strings.SplitSeq(line, ":") {
		d, ok := strings.CutPrefix(field, "d=")
		if !ok {
			continue
		}
		t, err := time.Parse("2006010215", d)
		if err != nil {
			return InventoryRecord{}, fmt.Errorf("record %s: reference time %q: %w", id, d, err)
		}
		rec.ReferenceTime = t
		break
	}
	return rec, nil
}

// MaxInventoryLine is the longest line, in bytes, ReadInventory accepts.
const MaxInventoryLine = 1 << 20

// ReadInventory parses every non-blank line of r. Lines longer than
// MaxInventoryLine are rejected.
func ReadInventory(r io.Reader) ([]InventoryRecord, error) {
	var records []InventoryRecord
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxInventoryLine)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseInventoryLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line %d: inventory line exceeds %d bytes: %w", n+1, MaxInventoryLine, err)
		}
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return records, nil
}
