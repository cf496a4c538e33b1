// internal/view/router.go
package view

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownView       = errors.New("unknown view")
	ErrInvalidTransition = errors.New("invalid view transition")
	// ErrGuardedTransition is returned when a view may only be entered as the result of an action.
	ErrGuardedTransition = errors.New("view is entered only by completing an order")
)

// View is the single active screen.
type View string

const (
	Home         View = "home"
	Cart         View = "cart"
	Checkout     View = "checkout"
	OrderSuccess View = "orderSuccess"
)

// All lists the views in navigation order.
var All = []View{Home, Cart, Checkout, OrderSuccess}

func Parse(s string) (View, error) {
	for _, v := range All {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

func (v View) String() string {
	return string(v)
}

// Transition describes one applied state change.
type Transition struct {
	From View
	To   View
}

// Entered reports whether the transition moved into v.
func (t Transition) Entered(v View) bool {
	return t.To == v && t.From != v
}

// Left reports whether the transition moved out of v.
func (t Transition) Left(v View) bool {
	return t.From == v && t.To != v
}

// userTransitions holds the edges a user may request directly. Home is reachable from
// everywhere and is handled separately. Cart is reachable from every other view through
// the header.
var userTransitions = map[View][]View{
	Home:         {Cart},
	Cart:         {Checkout},
	Checkout:     {Cart},
	OrderSuccess: {Cart},
}

// Router tracks the active view. It starts at Home and never reaches a terminal state.
type Router struct {
	mu        sync.Mutex
	current   View
	listeners []func(Transition)
}

func NewRouter() *Router {
	return &Router{current: Home}
}

func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnTransition registers fn to run after every state change. Listeners run synchronously,
// in registration order, after the router lock is released.
func (r *Router) OnTransition(fn func(Transition)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Navigate applies a user-requested transition. Navigating to the current view is a no-op.
func (r *Router) Navigate(to View) error {
	if _, err := Parse(string(to)); err != nil {
		return err
	}
	if to == OrderSuccess {
		return ErrGuardedTransition
	}

	r.mu.Lock()
	from := r.current
	if from == to {
		r.mu.Unlock()
		return nil
	}
	if !allowed(from, to) {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	r.current = to
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, Transition{From: from, To: to})
	return nil
}

// CompleteOrder moves checkout to orderSuccess. The caller must already have cleared the cart.
func (r *Router) CompleteOrder() error {
	r.mu.Lock()
	from := r.current
	if from != Checkout {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, OrderSuccess)
	}
	r.current = OrderSuccess
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, Transition{From: from, To: OrderSuccess})
	return nil
}

func allowed(from, to View) bool {
	if to == Home {
		return true
	}
	for _, v := range userTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

func notify(listeners []func(Transition), t Transition) {
	for _, fn := range listeners {
		fn(t)
	}
}
