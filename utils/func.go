package utils

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

// GetFunctionName returns the name of the function passed as an argument.
// If the argument is nil, it returns "<nil>". If the argument is not a function,
// it will return "<not a function>".
func GetFunctionName(f any) string {
	fn, isNil := funcForValue(f)

	switch {
	case isNil:
		return "<nil>"
	case fn == nil:
		return "<not a function>"
	default:
		return fn.Name()
	}
}

// GetShortFunctionName is GetFunctionName without the import path, so
// "github.com/acme/pkg.(*T).Run" becomes "(*T).Run".
func GetShortFunctionName(f any) string {
	name := GetFunctionName(f)
	if strings.HasPrefix(name, "<") {
		return name
	}

	if slash := strings.LastIndex(name, "/"); slash >= 0 {
		name = name[slash+1:]
	}

	if dot := strings.Index(name, "."); dot >= 0 {
		name = name[dot+1:]
	}

	return name
}

// GetFunctionLocation returns "name() in file.go, line N" for a function value,
// pointing at the line where the function is declared.
func GetFunctionLocation(f any) string {
	fn, _ := funcForValue(f)
	if fn == nil {
		return GetFunctionName(f)
	}

	file, line := fn.FileLine(fn.Entry())

	return fmt.Sprintf("%s() in %s, line %d", GetShortFunctionName(f), filepath.Base(file), line)
}

// funcForValue resolves a func value to its runtime entry. isNil is set for
// a nil interface and for nil values of nillable kinds.
func funcForValue(f any) (fn *runtime.Func, isNil bool) {
	if f == nil {
		return nil, true
	}

	val := reflect.ValueOf(f)

	switch val.Kind() { //nolint:exhaustive
	case reflect.Func:
		if val.IsNil() {
			return nil, true
		}

		return runtime.FuncForPC(val.Pointer()), false
	case reflect.Chan, reflect.Map, reflect.Pointer, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return nil, val.IsNil()
	default:
		return nil, false
	}
}
