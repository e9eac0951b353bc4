package value

import "sync"

// Pair is an immutable cons cell with shared ownership: Car/Cdr can be
// read concurrently by any number of goroutines without synchronization,
// since neither ever changes after construction.
type Pair struct {
	Car, Cdr Value
}

func (Pair) Kind() Kind { return KindPair }

func Cons(car, cdr Value) Pair { return Pair{Car: car, Cdr: cdr} }

// MutablePair is a cons cell with interior mutability: set-car!/set-cdr!
// mutate it in place, visible to every holder of the same MutablePair.
type MutablePair struct {
	mu       *sync.RWMutex
	car, cdr *Value
}

func (MutablePair) Kind() Kind { return KindMutablePair }

func NewMutablePair(car, cdr Value) MutablePair {
	return MutablePair{mu: &sync.RWMutex{}, car: &car, cdr: &cdr}
}

func (p MutablePair) Car() Value {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return *p.car
}

func (p MutablePair) Cdr() Value {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return *p.cdr
}

func (p MutablePair) SetCar(v Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.car = v
}

func (p MutablePair) SetCdr(v Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.cdr = v
}

// ListToSlice converts a proper list (built from any mix of Pair and
// MutablePair, nil-terminated) into a slice. It reports ok=false if v is
// not a proper list.
func ListToSlice(v Value) (items []Value, ok bool) {
	for {
		switch t := v.(type) {
		case Nil:
			return items, true
		case Pair:
			items = append(items, t.Car)
			v = t.Cdr
		case MutablePair:
			items = append(items, t.Car())
			v = t.Cdr()
		default:
			return items, false
		}
	}
}

// SliceToList builds a proper, immutable list from items.
func SliceToList(items []Value) Value {
	var result Value = TheNil
	for i := len(items) - 1; i >= 0; i-- {
		result = Cons(items[i], result)
	}
	return result
}

// IsProperList reports whether v is a nil-terminated chain of Pair/MutablePair,
// per spec §3's proper-list predicate, tolerating cycles (reports false
// rather than hanging, using Floyd's tortoise-and-hare).
func IsProperList(v Value) bool {
	slow, fast := v, v
	for {
		switch t := fast.(type) {
		case Nil:
			return true
		case Pair:
			fast = t.Cdr
		case MutablePair:
			fast = t.Cdr()
		default:
			return false
		}
		switch t := fast.(type) {
		case Nil:
			return true
		case Pair:
			fast = t.Cdr
		case MutablePair:
			fast = t.Cdr()
		default:
			return false
		}
		switch t := slow.(type) {
		case Pair:
			slow = t.Cdr
		case MutablePair:
			slow = t.Cdr()
		}
		if samePointerIdentity(slow, fast) {
			return false
		}
	}
}
