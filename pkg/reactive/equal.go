package reactive

import "reflect"

// Equal reports whether two property values are the same value.
//
// Values of different dynamic types are never equal. Comparable values use
// ==; slices, maps and other non-comparable values fall back to
// reflect.DeepEqual.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return safeCompare(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// safeCompare compares two comparable values. Structs or arrays holding
// interface fields may still panic at runtime; those fall back to DeepEqual.
func safeCompare(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
