package scheduler

import (
	"reflect"
	"runtime"
	"strings"
)

// InferNameFromFunc derives a readable callback name from the function's
// symbol, e.g. "PollAll-fm" for a bound method.
func InferNameFromFunc(f any) string {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func {
		return "unknown"
	}

	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return "unknown"
	}

	parts := strings.Split(fn.Name(), ".")
	return parts[len(parts)-1]
}
