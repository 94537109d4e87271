package page

import (
	"reflect"
	"sync"

	"github.com/irrustible/pages/errors"
)

// Pages live in memory the garbage collector scans as raw bytes, so a Go
// pointer stored in a header or slot would not keep its referent alive.
// Construction rejects such types up front instead of corrupting memory
// later.

var pointerFreeCache sync.Map // reflect.Type -> bool

func isPointerFree(t reflect.Type) bool {
	if cached, ok := pointerFreeCache.Load(t); ok {
		return cached.(bool)
	}
	free := computePointerFree(t)
	pointerFreeCache.Store(t, free)
	return free
}

func computePointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return computePointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !computePointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// Pointers, maps, chans, funcs, slices, strings, interfaces
		// and unsafe.Pointer all carry GC-visible references.
		return false
	}
}

func checkPointerFree[H, T any]() error {
	if ht := reflect.TypeOf((*H)(nil)).Elem(); !isPointerFree(ht) {
		return errors.UnsupportedType(ht.String(),
			"header type contains Go pointers, which the garbage collector cannot see inside a page")
	}
	if dt := reflect.TypeOf((*T)(nil)).Elem(); !isPointerFree(dt) {
		return errors.UnsupportedType(dt.String(),
			"data type contains Go pointers, which the garbage collector cannot see inside a page")
	}
	return nil
}
