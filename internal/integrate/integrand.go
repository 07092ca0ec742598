package integrate

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Func is a pure real-valued function of one real variable. A non-nil error
// aborts the integration that is evaluating it.
type Func func(x float64) (float64, error)

// Pure adapts an infallible function such as math.Sin to a Func.
func Pure(f func(float64) float64) Func {
	return func(x float64) (float64, error) { return f(x), nil }
}

// Integrand is a Func together with the registry name that identifies it
// across process boundaries. Primitive, when set, is an antiderivative used
// to compute the exact integral for accuracy reports.
//
// Errors lists the sentinel errors Fn may return. Error values do not survive
// a process boundary; a worker reports which of them matched and the parent
// restores it, so errors.Is keeps working for the isolated strategy.
type Integrand struct {
	Name      string
	Fn        Func
	Primitive func(x float64) float64
	Errors    []error
}

// Anonymous wraps a function that has no registry name. Anonymous integrands
// work with every in-process strategy but cannot be sent to a worker process.
func Anonymous(f Func) Integrand {
	return Integrand{Fn: f}
}

// Exact returns the closed-form integral over [a, b] when a primitive is known.
func (in Integrand) Exact(a, b float64) (float64, bool) {
	if in.Primitive == nil {
		return 0, false
	}
	return in.Primitive(b) - in.Primitive(a), true
}

// Registry maps names to integrands. Worker processes resolve the integrand
// of a task through the default registry, so only registered integrands are
// transferable.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Integrand
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Integrand)}
}

// Register adds an integrand. Names must be unique and non-empty.
func (r *Registry) Register(in Integrand) error {
	if in.Name == "" {
		return fmt.Errorf("integrand name must not be empty")
	}
	if in.Fn == nil {
		return fmt.Errorf("integrand %q has no function", in.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.funcs[in.Name]; exists {
		return fmt.Errorf("integrand %q already registered", in.Name)
	}
	r.funcs[in.Name] = in
	return nil
}

// MustRegister is like Register but panics on error. Intended for init code.
func (r *Registry) MustRegister(in Integrand) {
	if err := r.Register(in); err != nil {
		panic(err)
	}
}

// Get returns the integrand registered under name.
func (r *Registry) Get(name string) (Integrand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	in, ok := r.funcs[name]
	if !ok {
		return Integrand{}, fmt.Errorf("unknown integrand %q", name)
	}
	return in, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[name]
	return ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = newBuiltinRegistry()

// DefaultRegistry returns the process-wide registry holding the builtin
// integrands. Tests and programs may register additional integrands in init
// functions; a worker process sees the same registrations because it runs
// the same binary.
func DefaultRegistry() *Registry { return defaultRegistry }

// Lookup resolves name in the default registry.
func Lookup(name string) (Integrand, error) { return defaultRegistry.Get(name) }

// Builtin integrand names.
const (
	Sin    = "sin"
	Cos    = "cos"
	Square = "square"
	Poly   = "poly"
	Exp    = "exp"
)

func newBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Integrand{Name: Sin, Fn: Pure(math.Sin), Primitive: func(x float64) float64 { return -math.Cos(x) }})
	r.MustRegister(Integrand{Name: Cos, Fn: Pure(math.Cos), Primitive: math.Sin})
	r.MustRegister(Integrand{
		Name:      Square,
		Fn:        Pure(func(x float64) float64 { return x * x }),
		Primitive: func(x float64) float64 { return x * x * x / 3 },
	})
	// x² + 2x + 1 = (x+1)²
	r.MustRegister(Integrand{
		Name:      Poly,
		Fn:        Pure(func(x float64) float64 { return x*x + 2*x + 1 }),
		Primitive: func(x float64) float64 { return (x + 1) * (x + 1) * (x + 1) / 3 },
	})
	r.MustRegister(Integrand{Name: Exp, Fn: Pure(math.Exp), Primitive: math.Exp})
	return r
}
