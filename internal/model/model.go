package model

import (
	"fmt"
	"strings"
)

// Entry holds the user-supplied fields of a phone-book record.
type Entry struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Patronymic string `json:"patronymic"`
	Number     string `json:"number"`
	Note       string `json:"note"`
}

// Record is an entry as stored by the service. ID is assigned by the
// service and is always >= 1.
type Record struct {
	ID uint64 `json:"id"`
	Entry
}

type ResultKind int

const (
	KindAbsent ResultKind = iota
	KindSingle
	KindMany
)

func (k ResultKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindSingle:
		return "single"
	case KindMany:
		return "many"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the normalized outcome of a find operation.
//
// The zero value is Absent. An empty list of records is never a distinct
// state: Many with no records is Absent.
type Result struct {
	kind    ResultKind
	records []Record
}

func Absent() Result { return Result{} }

func One(r Record) Result {
	return Result{kind: KindSingle, records: []Record{r}}
}

func Many(rs []Record) Result {
	if len(rs) == 0 {
		return Result{}
	}
	out := make([]Record, len(rs))
	copy(out, rs)
	return Result{kind: KindMany, records: out}
}

func (r Result) Kind() ResultKind { return r.kind }

func (r Result) IsAbsent() bool { return r.kind == KindAbsent }

func (r Result) Len() int { return len(r.records) }

// Records returns the matched records in the order the service sent them.
func (r Result) Records() []Record {
	if len(r.records) == 0 {
		return nil
	}
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r Result) First() (Record, bool) {
	if len(r.records) == 0 {
		return Record{}, false
	}
	return r.records[0], true
}

// Category identifies one of the interactive dialog kinds.
type Category int

const (
	CategoryAdd Category = iota
	CategoryDelete
	CategoryFind
)

// Categories lists every dialog category in launcher order.
var Categories = []Category{CategoryAdd, CategoryDelete, CategoryFind}

func (c Category) String() string {
	switch c {
	case CategoryAdd:
		return "add"
	case CategoryDelete:
		return "delete"
	case CategoryFind:
		return "find"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

func (c Category) Valid() bool {
	return c >= CategoryAdd && c <= CategoryFind
}

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add":
		return CategoryAdd, nil
	case "delete":
		return CategoryDelete, nil
	case "find":
		return CategoryFind, nil
	default:
		return 0, fmt.Errorf("unknown dialog category: %q", s)
	}
}
