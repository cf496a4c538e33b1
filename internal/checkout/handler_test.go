package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/storage"
	"storefront/internal/view"
)

var fullForm = Form{Name: "Asha", Address: "12 MG Road", City: "Pune", Pincode: "411001"}

type fixture struct {
	cart    *cart.Store
	router  *view.Router
	handler *Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := cart.NewStore(ctx, cart.NewKVRepository(storage.NewMemoryStore(), "shoppingCart"), zap.NewNop())
	store.Add(ctx, catalog.InitialProducts()[0])
	store.Add(ctx, catalog.InitialProducts()[2])

	router := view.NewRouter()
	require.NoError(t, router.Navigate(view.Cart))
	require.NoError(t, router.Navigate(view.Checkout))

	return fixture{cart: store, router: router, handler: NewHandler(store, router)}
}

func TestSubmitIncompleteForm(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.handler.Set(FieldName, "A"))
	before := f.cart.Lines()

	err := f.handler.Submit(context.Background())

	assert.ErrorIs(t, err, ErrIncompleteForm)
	assert.Equal(t, "Please fill out all shipping details.", Message(err))
	assert.Equal(t, view.Checkout, f.router.Current())
	assert.Equal(t, before, f.cart.Lines())
	assert.Equal(t, Form{Name: "A"}, f.handler.Form(), "field values stay intact")
}

func TestSubmitEachMissingField(t *testing.T) {
	for _, field := range Fields {
		t.Run(string(field), func(t *testing.T) {
			f := newFixture(t)
			form, err := fullForm.With(field, "")
			require.NoError(t, err)
			f.handler.Fill(form)

			assert.ErrorIs(t, f.handler.Submit(context.Background()), ErrIncompleteForm)
			assert.Len(t, f.cart.Lines(), 2)
		})
	}
}

func TestSubmitCompleteForm(t *testing.T) {
	f := newFixture(t)
	f.handler.Fill(fullForm)

	require.NoError(t, f.handler.Submit(context.Background()))

	assert.Empty(t, f.cart.Lines())
	assert.Equal(t, view.OrderSuccess, f.router.Current())
}

func TestSubmitAcceptsWhitespace(t *testing.T) {
	f := newFixture(t)
	f.handler.Fill(Form{Name: " ", Address: " ", City: " ", Pincode: "abc"})

	require.NoError(t, f.handler.Submit(context.Background()))
	assert.Equal(t, view.OrderSuccess, f.router.Current())
}

func TestSubmitOutsideCheckout(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.router.Navigate(view.Home))
	f.handler.Fill(fullForm)

	assert.ErrorIs(t, f.handler.Submit(context.Background()), ErrNotInCheckout)
	assert.Len(t, f.cart.Lines(), 2)
	assert.Equal(t, view.Home, f.router.Current())
}

// recorder checks that the cart is cleared while the router still shows checkout.
type recorder struct {
	router *view.Router
	calls  []string
}

func (r *recorder) Clear(ctx context.Context) {
	r.calls = append(r.calls, "clear@"+r.router.Current().String())
}

func TestSubmitClearsBeforeLeavingCheckout(t *testing.T) {
	router := view.NewRouter()
	require.NoError(t, router.Navigate(view.Cart))
	require.NoError(t, router.Navigate(view.Checkout))
	rec := &recorder{router: router}
	router.OnTransition(func(tr view.Transition) {
		rec.calls = append(rec.calls, "view@"+tr.To.String())
	})

	h := NewHandler(rec, router)
	h.Fill(fullForm)
	require.NoError(t, h.Submit(context.Background()))

	assert.Equal(t, []string{"clear@checkout", "view@orderSuccess"}, rec.calls)
}

func TestSetAndReset(t *testing.T) {
	h := NewHandler(nil, nil)
	require.NoError(t, h.Set(FieldCity, "Jaipur"))
	require.NoError(t, h.Set(FieldPincode, "302001"))
	assert.Equal(t, Form{City: "Jaipur", Pincode: "302001"}, h.Form())

	assert.ErrorIs(t, h.Set(Field("phone"), "1"), ErrUnknownField)

	h.Reset()
	assert.Equal(t, Form{}, h.Form())
}

func TestMergeKeepsEditedFields(t *testing.T) {
	edited := Form{Name: "Asha", City: "Pune"}
	got := edited.Merge(Form{Address: "12 MG Road", City: "Mumbai"})
	assert.Equal(t, Form{Name: "Asha", Address: "12 MG Road", City: "Mumbai"}, got)
	assert.Equal(t, edited, edited.Merge(Form{}))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, IncompleteFormMessage, Message(fmt.Errorf("submit: %w", ErrIncompleteForm)))
	assert.Equal(t, ErrNotInCheckout.Error(), Message(ErrNotInCheckout))
	assert.NotEqual(t, IncompleteFormMessage, ErrIncompleteForm.Error())
}

func TestParseField(t *testing.T) {
	f, err := ParseField("address")
	require.NoError(t, err)
	assert.Equal(t, FieldAddress, f)

	_, err = ParseField("Address")
	assert.ErrorIs(t, err, ErrUnknownField)
}
