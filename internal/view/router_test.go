package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	for _, v := range All {
		got, err := Parse(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	_, err := Parse("Home")
	assert.ErrorIs(t, err, ErrUnknownView)
	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestNewRouterStartsAtHome(t *testing.T) {
	assert.Equal(t, Home, NewRouter().Current())
}

func TestNavigateTable(t *testing.T) {
	tests := []struct {
		from, to View
		wantErr  error
	}{
		{Home, Cart, nil},
		{Home, Checkout, ErrInvalidTransition},
		{Home, Home, nil},
		{Cart, Home, nil},
		{Cart, Checkout, nil},
		{Cart, Cart, nil},
		{Checkout, Home, nil},
		{Checkout, Cart, nil},
		{Checkout, Checkout, nil},
		{OrderSuccess, Home, nil},
		{OrderSuccess, Cart, nil},
		{OrderSuccess, Checkout, ErrInvalidTransition},
		{Home, OrderSuccess, ErrGuardedTransition},
		{Checkout, OrderSuccess, ErrGuardedTransition},
		{OrderSuccess, OrderSuccess, ErrGuardedTransition},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			r := routerAt(t, tt.from)
			err := r.Navigate(tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, r.Current())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, r.Current())
		})
	}
}

func TestNavigateUnknownView(t *testing.T) {
	r := NewRouter()
	assert.ErrorIs(t, r.Navigate(View("settings")), ErrUnknownView)
	assert.Equal(t, Home, r.Current())
}

func TestCompleteOrderOnlyFromCheckout(t *testing.T) {
	for _, from := range []View{Home, Cart, OrderSuccess} {
		r := routerAt(t, from)
		assert.ErrorIs(t, r.CompleteOrder(), ErrInvalidTransition, "from %s", from)
		assert.Equal(t, from, r.Current())
	}

	r := routerAt(t, Checkout)
	require.NoError(t, r.CompleteOrder())
	assert.Equal(t, OrderSuccess, r.Current())
}

func TestOnTransition(t *testing.T) {
	r := NewRouter()
	var seen []Transition
	r.OnTransition(func(tr Transition) { seen = append(seen, tr) })

	require.NoError(t, r.Navigate(Cart))
	require.NoError(t, r.Navigate(Cart))
	require.NoError(t, r.Navigate(Checkout))
	require.Error(t, r.Navigate(OrderSuccess))
	require.NoError(t, r.CompleteOrder())
	require.NoError(t, r.Navigate(Home))

	assert.Equal(t, []Transition{
		{From: Home, To: Cart},
		{From: Cart, To: Checkout},
		{From: Checkout, To: OrderSuccess},
		{From: OrderSuccess, To: Home},
	}, seen)

	assert.True(t, seen[1].Entered(Checkout))
	assert.True(t, seen[2].Left(Checkout))
	assert.False(t, seen[0].Left(Checkout))
}

func TestListenerMayReadRouter(t *testing.T) {
	r := NewRouter()
	var current View
	r.OnTransition(func(Transition) { current = r.Current() })

	require.NoError(t, r.Navigate(Cart))
	assert.Equal(t, Cart, current)
}

func TestHomeReachableFromAnyState(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRouter()
		n := rapid.IntRange(0, 20).Draw(t, "steps")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(t, "complete") {
				_ = r.CompleteOrder()
				continue
			}
			_ = r.Navigate(rapid.SampledFrom(All).Draw(t, "to"))
		}

		if err := r.Navigate(Home); err != nil {
			t.Fatalf("home unreachable from %s: %v", r.Current(), err)
		}
		if r.Current() != Home {
			t.Fatalf("router at %s after navigating home", r.Current())
		}
	})
}

func TestCartReachableFromEveryView(t *testing.T) {
	for _, from := range All {
		r := routerAt(t, from)
		require.NoError(t, r.Navigate(Cart), "from %s", from)
		assert.Equal(t, Cart, r.Current())
	}
}

// routerAt drives a fresh router to v through legal transitions.
func routerAt(t *testing.T, v View) *Router {
	t.Helper()
	r := NewRouter()
	path := map[View][]View{
		Home:         nil,
		Cart:         {Cart},
		Checkout:     {Cart, Checkout},
		OrderSuccess: {Cart, Checkout},
	}[v]
	for _, step := range path {
		require.NoError(t, r.Navigate(step))
	}
	if v == OrderSuccess {
		require.NoError(t, r.CompleteOrder())
	}
	require.Equal(t, v, r.Current())
	return r
}
