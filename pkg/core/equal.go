package core

import "reflect"

// Changed reports whether next should be treated as a new value for a
// property that held prev.
//
// Comparable values use ==, except that two values that are each unequal to
// themselves (NaN, or structs holding NaN) count as unchanged. Maps are
// compared by identity and slices by backing array and length. Functions and
// other incomparable values always count as changed.
func Changed(prev, next any) bool {
	if selfUnequal(prev) && selfUnequal(next) {
		return false
	}
	return !identical(prev, next)
}

func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		eq, _ := equal(a, b)
		return eq
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Map:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return false
	}
}

func selfUnequal(v any) bool {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return false
	}
	eq, ok := equal(v, v)
	return ok && !eq
}

// equal compares with ==. ok is false if the comparison panicked, which
// happens when an interface field holds an incomparable value.
func equal(a, b any) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}
