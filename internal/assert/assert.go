package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}

// InRange panics if value falls outside of [min, max].
func InRange(name string, value, min, max int) {
	if value < min || value > max {
		panic(fmt.Sprintf("expected %s to be within [%d, %d], got %d", name, min, max, value))
	}
}
