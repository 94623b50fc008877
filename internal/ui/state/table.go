package state

import (
	"sync/atomic"

	"github.com/smsgw/sms-terminal/internal/sms"
)

// Pagination constants for the message table.
const (
	PageSize      = 20
	LoadThreshold = 5
)

// Table columns, in display order.
const (
	ColumnID = iota
	ColumnDirection
	ColumnTimestamp
	ColumnContent
	ColumnCount
)

// Table is the pure state of one conversation's paginated message list.
// Fetching is the caller's job; the table only tracks what a fetch cycle is
// allowed to change.
type Table struct {
	Records        []sms.Record
	Offset         int
	HasMore        bool
	Loading        bool
	SelectedRow    int
	SelectedColumn int
	Reversed       bool

	generation int
}

// generationSeed makes load-cycle tokens unique across table instances, so a
// fetch started by an abandoned table can never satisfy its successor.
var generationSeed atomic.Int64

func nextGeneration() int {
	return int(generationSeed.Add(1))
}

// NewTable creates an empty table expecting its first page.
func NewTable(reversed bool) *Table {
	return &Table{HasMore: true, Reversed: reversed, generation: nextGeneration()}
}

// Reset drops all loaded data and starts a new load cycle. In-flight fetches
// from the previous cycle become stale.
func (t *Table) Reset(reversed bool) {
	t.Records = nil
	t.Offset = 0
	t.HasMore = true
	t.Loading = false
	t.SelectedRow = 0
	t.SelectedColumn = 0
	t.Reversed = reversed
	t.generation = nextGeneration()
}

// BeginLoad marks a fetch in flight and returns the generation token the
// response must present. ok is false while another fetch is outstanding or
// when no further page exists.
func (t *Table) BeginLoad() (generation int, ok bool) {
	if t.Loading || !t.HasMore {
		return 0, false
	}
	t.Loading = true
	return t.generation, true
}

// ApplyPage appends a fetched page. Stale responses (a Reset happened since
// BeginLoad) are discarded. The offset advances by PageSize only on a full
// page; a short page marks the conversation exhausted.
func (t *Table) ApplyPage(generation int, records []sms.Record) bool {
	if generation != t.generation {
		return false
	}
	t.Loading = false
	for _, rec := range records {
		if t.containsID(rec.ID) {
			continue
		}
		t.Records = append(t.Records, rec)
	}
	if len(records) == PageSize {
		t.Offset += PageSize
		t.HasMore = true
	} else {
		t.HasMore = false
	}
	t.clampSelection()
	return true
}

// FailLoad clears the in-flight flag after a failed fetch so the operator can
// retry. Stale failures are ignored.
func (t *Table) FailLoad(generation int) bool {
	if generation != t.generation {
		return false
	}
	t.Loading = false
	return true
}

// AddLiveMessage inserts a pushed message at the top of the table. Inserting
// the same message twice is a no-op, so a page fetch racing a live push
// cannot duplicate rows.
func (t *Table) AddLiveMessage(rec sms.Record) bool {
	if t.containsID(rec.ID) {
		return false
	}
	t.Records = append([]sms.Record{rec}, t.Records...)
	if t.SelectedRow > 0 {
		// Keep the highlight on the record the operator was looking at.
		t.SelectedRow++
	}
	t.clampSelection()
	return true
}

// ShouldLoadMore reports whether the selection is close enough to the end to
// warrant fetching the next page.
func (t *Table) ShouldLoadMore() bool {
	if t.Loading || !t.HasMore || len(t.Records) == 0 {
		return false
	}
	return t.SelectedRow >= len(t.Records)-LoadThreshold
}

// MoveSelection moves the row highlight by delta, clamped to the table.
func (t *Table) MoveSelection(delta int) bool {
	if len(t.Records) == 0 {
		t.SelectedRow = 0
		return false
	}
	old := t.SelectedRow
	t.SelectedRow += delta
	t.clampSelection()
	return t.SelectedRow != old
}

// MoveColumn moves the column highlight by delta, clamped to the column set.
func (t *Table) MoveColumn(delta int) bool {
	old := t.SelectedColumn
	t.SelectedColumn += delta
	if t.SelectedColumn < 0 {
		t.SelectedColumn = 0
	}
	if t.SelectedColumn >= ColumnCount {
		t.SelectedColumn = ColumnCount - 1
	}
	return t.SelectedColumn != old
}

// SelectedRecord returns the highlighted record, if any.
func (t *Table) SelectedRecord() (sms.Record, bool) {
	if t.SelectedRow < 0 || t.SelectedRow >= len(t.Records) {
		return sms.Record{}, false
	}
	return t.Records[t.SelectedRow], true
}

// Generation exposes the current load-cycle token for response validation.
func (t *Table) Generation() int {
	return t.generation
}

func (t *Table) containsID(id string) bool {
	for _, rec := range t.Records {
		if rec.ID == id {
			return true
		}
	}
	return false
}

func (t *Table) clampSelection() {
	if len(t.Records) == 0 {
		t.SelectedRow = 0
		return
	}
	if t.SelectedRow < 0 {
		t.SelectedRow = 0
	}
	if t.SelectedRow >= len(t.Records) {
		t.SelectedRow = len(t.Records) - 1
	}
}
