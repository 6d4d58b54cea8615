package cli

import "fmt"

type invalidFlagError struct {
	flag  string
	value any
	want  string
}

func (e invalidFlagError) Error() string {
	return fmt.Sprintf("invalid --%s %v: want %s", e.flag, e.value, e.want)
}

func errInvalidFlag(flag string, value any, want string) error {
	return invalidFlagError{flag: flag, value: value, want: want}
}
