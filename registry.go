package serial

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry binds physical ports to UARTs. It hands out exactly one UART per
// attached port, building it on first request and registering its
// interrupt handler with the dispatcher at that moment. Every caller asking
// for the same name shares that UART and its queues.
type Registry struct {
	dispatch Dispatcher
	clock    uint32

	mu    sync.Mutex
	ports map[string]Port
	uarts map[string]*UART
}

// NewRegistry creates a registry whose UARTs register with d and derive
// their divisor from clock unless Config.ClockRate overrides it.
func NewRegistry(d Dispatcher, clock uint32) *Registry {
	return &Registry{
		dispatch: d,
		clock:    clock,
		ports:    make(map[string]Port),
		uarts:    make(map[string]*UART),
	}
}

// Attach makes p available under name. A port can be attached once.
func (r *Registry) Attach(name string, p Port) error {
	if p == nil {
		return fmt.Errorf("attach %q: %w", name, ErrNoPort)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ports[name]; ok {
		return fmt.Errorf("attach %q: %w", name, ErrPortAttached)
	}
	for other, q := range r.ports {
		if samePort(q, p) {
			return fmt.Errorf("attach %q: %w as %q", name, ErrPortAttached, other)
		}
	}
	r.ports[name] = p
	return nil
}

// samePort reports whether a and b are the same port. Ports of an
// incomparable dynamic type never match instead of panicking on ==.
func samePort(a, b Port) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}

// UART returns the UART of the port attached under name, creating it on the
// first call. If the interrupt handler cannot be registered no UART is
// created and a later call tries again.
func (r *Registry) UART(name string) (*UART, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.uarts[name]; ok {
		return u, nil
	}
	p, ok := r.ports[name]
	if !ok {
		return nil, fmt.Errorf("uart %q: %w", name, ErrUnknownPort)
	}

	u := newUART(name, p, r.clock)
	if err := r.dispatch.Register(p.IRQ(), u.HandleInterrupt); err != nil {
		return nil, fmt.Errorf("uart %q: register irq %d: %w", name, p.IRQ(), err)
	}
	r.uarts[name] = u

	logFor(componentRegistry).Debug("uart created", "name", name, "id", u.ID(), "irq", int(p.IRQ()))
	return u, nil
}

// Names returns the attached port names in order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.ports))
	for n := range r.ports {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
