package value

import "sync"

// RecordType is a nominal record type descriptor (SRFI-9 / R7RS
// define-record-type).
type RecordType struct {
	TypeID     uint64
	Name       string
	FieldNames []string
}

func (*RecordType) Kind() Kind { return KindRecordType }

var (
	recordTypeMu  sync.Mutex
	nextRecordTyp uint64 = 1
)

// NewRecordType allocates a fresh nominal record type; two RecordTypes are
// the "same" type iff their TypeID matches (eq?-style identity), even if
// Name/FieldNames happen to coincide.
func NewRecordType(name string, fields []string) *RecordType {
	recordTypeMu.Lock()
	id := nextRecordTyp
	nextRecordTyp++
	recordTypeMu.Unlock()
	return &RecordType{TypeID: id, Name: name, FieldNames: append([]string(nil), fields...)}
}

func (rt *RecordType) FieldIndex(name string) int {
	for i, f := range rt.FieldNames {
		if f == name {
			return i
		}
	}
	return -1
}

// Record is an instance of a RecordType.
type Record struct {
	Type   *RecordType
	mu     *sync.RWMutex
	fields []Value
}

func (*Record) Kind() Kind { return KindRecord }

func NewRecord(t *RecordType, fields []Value) *Record {
	cp := make([]Value, len(fields))
	copy(cp, fields)
	return &Record{Type: t, mu: &sync.RWMutex{}, fields: cp}
}

func (r *Record) Field(i int) Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fields[i]
}

func (r *Record) SetField(i int, v Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[i] = v
}
