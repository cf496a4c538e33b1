// internal/chaos/experiments.go
package chaos

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/view"
)

// ErrQuotaExceeded emulates a full client-local store.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

var shipTo = checkout.Form{Name: "Chaos Monkey", Address: "1 Fault Line", City: "Bengaluru", Pincode: "560001"}

// RegisterExperiments registers the predefined storage experiments.
func (e *Engine) RegisterExperiments() {
	e.Register(
		WriteFailureExperiment(),
		ReadFailureExperiment(),
		CorruptedCartExperiment(),
		CheckoutDuringWriteFailureExperiment(),
		RecoveryAfterHealExperiment(),
	)
}

func failWrites(err error) Action {
	return Action{Type: "fail-writes", Execute: func(ctx context.Context, t *Target) error {
		t.Store.FailWrites(err)
		return nil
	}}
}

func heal() Action {
	return Action{Type: "heal", Execute: func(ctx context.Context, t *Target) error {
		t.Store.Heal()
		return nil
	}}
}

func restart() Action {
	return Action{Type: "restart", Execute: func(ctx context.Context, t *Target) error {
		t.Restart(ctx)
		return nil
	}}
}

// expectItems asserts the header badge count.
func expectItems(want int) Assertion {
	return Assertion{
		Message: fmt.Sprintf("cart holds %d items", want),
		Check: func(ctx context.Context, t *Target) error {
			snap, err := t.Service.Snapshot(ctx)
			if err != nil {
				return err
			}
			if snap.ItemCount != want {
				return fmt.Errorf("item count %d", snap.ItemCount)
			}
			return nil
		},
	}
}

func expectView(want view.View) Assertion {
	return Assertion{
		Message: fmt.Sprintf("view is %s", want),
		Check: func(ctx context.Context, t *Target) error {
			snap, err := t.Service.Snapshot(ctx)
			if err != nil {
				return err
			}
			if snap.View != want {
				return fmt.Errorf("view %s", snap.View)
			}
			return nil
		},
	}
}

func expectFaults() Assertion {
	return Assertion{
		Message: "faults were injected",
		Check: func(ctx context.Context, t *Target) error {
			if t.Store.Injected() == 0 {
				return errors.New("no operation hit an injected fault")
			}
			return nil
		},
	}
}

func addItems(ctx context.Context, t *Target) error {
	for _, id := range []int{3, 3, 1} {
		if err := t.Service.AddToCart(ctx, id); err != nil {
			return err
		}
	}
	t.Service.UpdateQuantity(ctx, 1, 2)
	return nil
}

// WriteFailureExperiment fails every save while the shopper edits the cart.
func WriteFailureExperiment() Experiment {
	return Experiment{
		Name:       "storage-write-failure",
		Hypothesis: "Cart mutations apply in memory when every save fails",
		Method:     []Action{failWrites(ErrQuotaExceeded)},
		Workload:   addItems,
		Rollback:   []Action{heal()},
		Validation: []Assertion{expectFaults(), expectItems(4)},
	}
}

// ReadFailureExperiment makes storage unreadable across a reload.
func ReadFailureExperiment() Experiment {
	return Experiment{
		Name:       "storage-read-failure",
		Hypothesis: "A session whose storage cannot be read starts with an empty cart",
		Workload: func(ctx context.Context, t *Target) error {
			if err := addItems(ctx, t); err != nil {
				return err
			}
			t.Store.FailReads(nil)
			t.Restart(ctx)
			return nil
		},
		Rollback:   []Action{heal()},
		Validation: []Assertion{expectFaults(), expectItems(0), expectView(view.Home)},
	}
}

// CorruptedCartExperiment overwrites the saved cart with garbage before a reload.
func CorruptedCartExperiment() Experiment {
	return Experiment{
		Name:       "corrupted-cart-value",
		Hypothesis: "A corrupted saved cart degrades to an empty cart that can be used again",
		Method: []Action{{Type: "corrupt", Execute: func(ctx context.Context, t *Target) error {
			return t.Store.Corrupt(ctx, config.DefaultCartKey, `[{"id":1,"quantity":0}`)
		}}},
		Workload: func(ctx context.Context, t *Target) error {
			t.Restart(ctx)
			return t.Service.AddToCart(ctx, 2)
		},
		Rollback:   []Action{restart()},
		Validation: []Assertion{expectItems(1)},
	}
}

// CheckoutDuringWriteFailureExperiment places an order while saves fail.
func CheckoutDuringWriteFailureExperiment() Experiment {
	return Experiment{
		Name:       "checkout-during-write-failure",
		Hypothesis: "Checkout completes and empties the cart even when the clear cannot be saved",
		Workload: func(ctx context.Context, t *Target) error {
			if err := addItems(ctx, t); err != nil {
				return err
			}
			if err := t.Service.SetView(ctx, view.Cart); err != nil {
				return err
			}
			if err := t.Service.SetView(ctx, view.Checkout); err != nil {
				return err
			}
			t.Store.FailWrites(ErrQuotaExceeded)
			_, err := t.Service.SubmitCheckout(ctx, shipTo)
			return err
		},
		Rollback:   []Action{heal()},
		Validation: []Assertion{expectFaults(), expectItems(0), expectView(view.OrderSuccess)},
	}
}

// RecoveryAfterHealExperiment checks that the first save after storage recovers
// persists the full in-memory cart.
func RecoveryAfterHealExperiment() Experiment {
	return Experiment{
		Name:       "recovery-after-heal",
		Hypothesis: "Once storage recovers, the next mutation persists the whole cart",
		Method:     []Action{failWrites(nil)},
		Workload: func(ctx context.Context, t *Target) error {
			if err := addItems(ctx, t); err != nil {
				return err
			}
			t.Store.Heal()
			return t.Service.AddToCart(ctx, 4)
		},
		Rollback:   []Action{restart()},
		Validation: []Assertion{expectFaults(), expectItems(5)},
	}
}
