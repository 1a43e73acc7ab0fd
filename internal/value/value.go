// Package value implements the tri-state Value[T] container distinguishing
// user-set, auto-inferred, and unset configuration fields.
package value

// State tags which of the three variants a Value holds.
type State int

const (
	// Unset means no value, user-supplied or inferred, has been recorded.
	Unset State = iota
	// Auto means the value was inferred by the engine, not the user.
	Auto
	// User means the value was explicitly supplied by the user.
	User
)

// Value is a tri-state container: User(T) | Auto(T) | Unset.
// The zero Value[T] is Unset.
type Value[T any] struct {
	state State
	inner T
}

// NewUser builds a User-state Value.
func NewUser[T any](v T) Value[T] { return Value[T]{state: User, inner: v} }

// NewAuto builds an Auto-state Value.
func NewAuto[T any](v T) Value[T] { return Value[T]{state: Auto, inner: v} }

// IsUser reports whether the value was explicitly supplied by the user.
func (v Value[T]) IsUser() bool { return v.state == User }

// IsAuto reports whether the value was inferred rather than user-set.
func (v Value[T]) IsAuto() bool { return v.state == Auto }

// IsUnset reports whether no value has been recorded.
func (v Value[T]) IsUnset() bool { return v.state == Unset }

// IntoInner returns the wrapped value and whether it was present at all
// (User or Auto). When Unset, the zero value of T is returned.
func (v Value[T]) IntoInner() (T, bool) {
	return v.inner, v.state != Unset
}

// Get is a convenience accessor returning the wrapped value regardless of
// state; callers that need to distinguish Unset should use IntoInner.
func (v Value[T]) Get() T { return v.inner }

// Merge resolves two Values for the same field per the precedence
// User > Auto > Unset. When both are User or both are Auto, v wins (the
// more specific / later-applied layer), matching Config's resolution order
// (user override beats inferred default; a later target layer's override
// beats an earlier one without being re-ranked by state).
func Merge[T any](v, fallback Value[T]) Value[T] {
	if v.IsUnset() || (v.IsAuto() && fallback.IsUser()) {
		return fallback
	}
	return v
}
