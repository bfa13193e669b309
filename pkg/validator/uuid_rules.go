package validator

import "github.com/google/uuid"

// UUID accepts a canonical, non-nil UUID. With a version given, the UUID must
// carry that version.
func UUID(version ...int) Check {
	return func(value string) bool {
		id, err := uuid.Parse(value)
		if err != nil || id == uuid.Nil || len(value) != 36 {
			return false
		}
		return len(version) == 0 || int(id.Version()) == version[0]
	}
}
