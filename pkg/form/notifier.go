package form

// ChangeKind names the mutation that triggered a notification.
type ChangeKind uint8

const (
	// ChangeField follows a single-field validation pass.
	ChangeField ChangeKind = iota + 1
	// ChangeAll follows a whole-form validation pass.
	ChangeAll
	// ChangeReset follows a full form reset.
	ChangeReset
	// ChangeResetField follows a single-field reset.
	ChangeResetField
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeField:
		return "field"
	case ChangeAll:
		return "all"
	case ChangeReset:
		return "reset"
	case ChangeResetField:
		return "reset_field"
	default:
		return "unknown"
	}
}

// Change describes a completed mutation. Key is empty for whole-form changes.
type Change struct {
	Kind ChangeKind
	Key  string
}

// ChangeFunc is invoked synchronously after every state or error mutation.
// It must not re-enter the engine in a way that recurses without bound.
type ChangeFunc func(Change)

// notifier is a single-slot callback holder.
type notifier struct {
	fn ChangeFunc
}

func (n *notifier) set(fn ChangeFunc) {
	n.fn = fn
}

func (n *notifier) notify(c Change) {
	if n.fn != nil {
		n.fn(c)
	}
}
