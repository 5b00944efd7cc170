package cbt

// Kind classifies a test case for lookup.
type Kind int

const (
	KindSimple Kind = iota
	KindCompound
	KindInit
	KindSystem
)

// Status carries the result statuses that change the skip decision.
type Status int

const (
	StatusOther Status = iota
	StatusStrictImportFailed
	StatusRecursiveCompound
	StatusNoExpectedValues
)

// Query identifies one test case.
type Query struct {
	// Name is the bare test case name, used for system tests.
	Name string
	// Qualified is "unit/function/name", used for every other kind.
	Qualified string
	Kind      Kind
	Status    Status
	// Monitored applies to system tests only.
	Monitored bool
}

// Resolution is the skip decision for one test case. Reason explains a
// skip that has a diagnostic worth reporting.
type Resolution struct {
	Skipped bool
	Timing  *Timing
	Reason  error
}

// Elapsed is the execution time in seconds, "0.0" without timing.
func (r Resolution) Elapsed() string {
	if r.Timing == nil {
		return "0.0"
	}
	return formatSeconds(r.Timing.Seconds())
}

// Resolver answers skip queries for one environment. It never mutates the
// dictionary, so repeated queries give the same answer.
type Resolver struct {
	dict     Dictionary
	hash     string
	disabled bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// Disabled turns skip detection off: every query resolves to not skipped.
func Disabled(off bool) Option {
	return func(r *Resolver) { r.disabled = off }
}

// NewResolver returns a resolver over dict for the build identified by hash.
// A nil dict means no skip detection.
func NewResolver(dict Dictionary, hash string, opts ...Option) *Resolver {
	r := &Resolver{dict: dict, hash: hash}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Hash is the build identity the resolver looks up.
func (r *Resolver) Hash() string { return r.hash }

// Resolve decides whether q was skipped.
func (r *Resolver) Resolve(q Query) Resolution {
	if q.Kind == KindSystem && !q.Monitored {
		return Resolution{}
	}
	if r.disabled || r.dict == nil {
		return Resolution{}
	}
	if len(r.dict) == 0 {
		return Resolution{Skipped: true}
	}

	if q.Kind != KindSystem && q.Status == StatusStrictImportFailed {
		return Resolution{}
	}

	tables, ok := r.dict[r.hash]
	if !ok {
		return Resolution{Skipped: true, Reason: ErrMissingIdentity}
	}
	if tables == nil {
		return Resolution{Skipped: true, Reason: ErrMalformedEntry}
	}
	if tables.Empty() {
		return Resolution{Skipped: true}
	}

	switch q.Kind {
	case KindSystem:
		return lookup(tables.Simple, q.Name, false)
	case KindCompound:
		return lookup(tables.Compound, q.Qualified, q.Status == StatusRecursiveCompound)
	case KindInit:
		return lookup(tables.Init, q.Qualified, false)
	default:
		return lookup(tables.Simple, q.Qualified, q.Status == StatusNoExpectedValues)
	}
}

// lookup resolves name in table. A forced query is not skipped even when
// absent, and carries timing only when present.
func lookup(table map[string]Timing, name string, forced bool) Resolution {
	if t, ok := table[name]; ok {
		return Resolution{Timing: &t}
	}
	if forced {
		return Resolution{}
	}
	return Resolution{Skipped: true}
}
