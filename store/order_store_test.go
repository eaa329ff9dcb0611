package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront-api/models"
)

func pricedCart(contact bool) *models.PricedCart {
	header := models.CartHeader{CartHeaderID: 1, UserID: "u1", CouponCode: "SAVE5"}
	if contact {
		header.Name = "Ada"
		header.Phone = "555-0100"
		header.Email = "ada@example.com"
	}
	return &models.PricedCart{
		Header: header,
		Lines: []models.PricedLine{
			{
				Line:        models.CartLine{CartLineID: 1, ProductID: 1, Count: 2},
				ProductName: "Product A",
				UnitPrice:   decimal.RequireFromString("10.00"),
				Subtotal:    decimal.RequireFromString("20.00"),
			},
			{
				Line:        models.CartLine{CartLineID: 2, ProductID: 2, Count: 1},
				ProductName: "Product B",
				UnitPrice:   decimal.RequireFromString("5.00"),
				Subtotal:    decimal.RequireFromString("5.00"),
			},
		},
		Subtotal: decimal.RequireFromString("25.00"),
		Discount: decimal.RequireFromString("5.00"),
		Total:    decimal.RequireFromString("20.00"),
	}
}

func TestNewOrderFromCart(t *testing.T) {
	order, err := NewOrderFromCart(pricedCart(true))
	require.NoError(t, err)

	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, "u1", order.UserID)
	require.Equal(t, "SAVE5", order.CouponCode)
	require.NotEmpty(t, order.OrderRef)
	require.True(t, order.OrderTotal.Equal(decimal.RequireFromString("20.00")))
	require.Len(t, order.Lines, 2)
	require.Equal(t, "Product A", order.Lines[0].ProductName)
	require.True(t, order.Lines[0].Price.Equal(decimal.RequireFromString("10.00")))
	require.Equal(t, 2, order.Lines[0].Count)
}

func TestNewOrderFromCartValidation(t *testing.T) {
	_, err := NewOrderFromCart(nil)
	require.ErrorIs(t, err, ErrEmptyCart)

	empty := pricedCart(true)
	empty.Lines = nil
	_, err = NewOrderFromCart(empty)
	require.ErrorIs(t, err, ErrEmptyCart)

	_, err = NewOrderFromCart(pricedCart(false))
	require.ErrorIs(t, err, ErrMissingContact)
}

func TestNewOrderFromCartRoundsTotal(t *testing.T) {
	cart := pricedCart(true)
	cart.Total = decimal.RequireFromString("19.995")

	order, err := NewOrderFromCart(cart)
	require.NoError(t, err)
	require.Equal(t, "20.00", order.OrderTotal.StringFixed(2))
}

func TestOrderLinesFrozenAgainstCatalogChanges(t *testing.T) {
	db := openTestDB(t)
	orders := NewOrderStore(db)
	product := seedProduct(t, db, "Product A", "10.00")

	cart := pricedCart(true)
	cart.Lines = cart.Lines[:1]
	cart.Lines[0].Line.ProductID = product.ProductID
	cart.Subtotal = decimal.RequireFromString("20.00")
	cart.Total = decimal.RequireFromString("15.00")

	order, err := NewOrderFromCart(cart)
	require.NoError(t, err)
	require.NoError(t, orders.Create(order))

	// Reprice and rename the product after the order exists.
	require.NoError(t, db.Model(&models.Product{}).
		Where("product_id = ?", product.ProductID).
		Updates(map[string]interface{}{"price": decimal.RequireFromString("99.00"), "name": "Renamed"}).Error)

	got, err := orders.GetByID(order.OrderHeaderID)
	require.NoError(t, err)
	require.Equal(t, "Product A", got.Lines[0].ProductName)
	require.True(t, got.Lines[0].Price.Equal(decimal.RequireFromString("10.00")))

	var sum decimal.Decimal
	for _, l := range got.Lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Count))))
	}
	require.True(t, got.OrderTotal.Equal(sum.Sub(got.Discount).Round(2)))
}

func TestGetByIDNotFound(t *testing.T) {
	orders := NewOrderStore(openTestDB(t))

	_, err := orders.GetByID(42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListByUser(t *testing.T) {
	db := openTestDB(t)
	orders := NewOrderStore(db)

	for _, user := range []string{"u1", "u2", "u1"} {
		cart := pricedCart(true)
		cart.Header.UserID = user
		order, err := NewOrderFromCart(cart)
		require.NoError(t, err)
		require.NoError(t, orders.Create(order))
	}

	mine, err := orders.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Greater(t, mine[0].OrderHeaderID, mine[1].OrderHeaderID, "newest first")

	all, err := orders.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestTransitionStatusCompareAndSet(t *testing.T) {
	db := openTestDB(t)
	orders := NewOrderStore(db)

	order, err := NewOrderFromCart(pricedCart(true))
	require.NoError(t, err)
	require.NoError(t, orders.Create(order))

	from := []models.OrderStatus{models.OrderStatusPending}
	changed, err := orders.TransitionStatus(order.OrderHeaderID, from, models.OrderStatusApproved, "pi_123")
	require.NoError(t, err)
	require.True(t, changed)

	got, err := orders.GetByID(order.OrderHeaderID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusApproved, got.Status)
	require.Equal(t, "pi_123", got.PaymentIntentID)

	// Second identical write finds no matching source state.
	changed, err = orders.TransitionStatus(order.OrderHeaderID, from, models.OrderStatusApproved, "pi_123")
	require.NoError(t, err)
	require.False(t, changed)

	// Stale external data cannot pull the order backwards.
	changed, err = orders.TransitionStatus(order.OrderHeaderID, from, models.OrderStatusPaymentFailed, "")
	require.NoError(t, err)
	require.False(t, changed)
	got, err = orders.GetByID(order.OrderHeaderID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusApproved, got.Status)
}
