package enums

// CartLifecycle tracks whether a cart store has completed its restore step.
type CartLifecycle string

const (
	CartLifecycleInitializing CartLifecycle = "initializing"
	CartLifecycleReady        CartLifecycle = "ready"
)

// String implements fmt.Stringer.
func (c CartLifecycle) String() string {
	return string(c)
}

// IsReady reports whether the store finished restoring.
func (c CartLifecycle) IsReady() bool {
	return c == CartLifecycleReady
}
