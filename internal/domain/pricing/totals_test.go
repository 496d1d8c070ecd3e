package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func assertDecimal(t *testing.T, want, got decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, want.Equal(got), "%s: expected %s, got %s", label, want, got)
}

var (
	testBrand = BrandConfig{
		ID:            "brand-1",
		Name:          "Napoli Street Pizza",
		BagFee:        dec(0.5),
		AdminFee:      dec(5),
		AdminFeeType:  AdminFeePercentage,
		VATPercentage: dec(25),
	}
	testLocation = LocationConfig{
		ID:          "loc-1",
		BrandID:     "brand-1",
		Name:        "Copenhagen Central",
		DeliveryFee: dec(29),
	}
	tenPercentOver100 = discount.Standard{
		ID:            "d1",
		Name:          "10% off",
		Kind:          discount.KindCart,
		Method:        discount.MethodPercentage,
		Value:         dec(10),
		MinOrderValue: dec(100),
	}
	freeDeliveryOver250 = discount.Standard{
		ID:            "d2",
		Name:          "Free delivery",
		Kind:          discount.KindFreeDelivery,
		MinOrderValue: dec(250),
	}
)

func item(lineID, id string, base, price float64, qty int) cart.Item {
	return cart.Item{
		LineID:    lineID,
		ID:        id,
		ItemType:  cart.ItemTypeProduct,
		BasePrice: dec(base),
		Price:     dec(price),
		Quantity:  qty,
	}
}

func TestComputeEmptyCart(t *testing.T) {
	got := Compute(Snapshot{
		State:     cart.State{DeliveryType: cart.DeliveryTypeDelivery, IncludeBagFee: true},
		Standards: []discount.Standard{tenPercentOver100, freeDeliveryOver250},
		Brand:     testBrand,
		Location:  testLocation,
	})

	assertDecimal(t, decimal.Zero, got.Subtotal, "subtotal")
	assertDecimal(t, decimal.Zero, got.DeliveryFee, "delivery fee")
	assertDecimal(t, decimal.Zero, got.BagFee, "bag fee")
	assertDecimal(t, decimal.Zero, got.AdminFee, "admin fee")
	assertDecimal(t, decimal.Zero, got.CheckoutTotal, "checkout total")
	assertDecimal(t, decimal.Zero, got.VATAmount, "vat")
	assert.Nil(t, got.CartDiscount)
	assert.Nil(t, got.VoucherDiscount)
	assert.False(t, got.FreeDeliveryApplied)
	assert.Zero(t, got.ItemCount)
	assert.Empty(t, got.FinalDiscountLabel)
}

func TestComputeVoucherBeatsAutomatic(t *testing.T) {
	state := cart.State{
		BrandID:       "brand-1",
		LocationID:    "loc-1",
		DeliveryType:  cart.DeliveryTypeDelivery,
		IncludeBagFee: true,
		Items: []cart.Item{
			item("l1", "prod-diavola", 100, 100, 2),
		},
		Voucher: &discount.Voucher{
			Code:          "SAVE30",
			Method:        discount.MethodFixed,
			Value:         dec(30),
			MinOrderValue: dec(50),
		},
	}

	got := Compute(Snapshot{
		State:     state,
		Standards: []discount.Standard{tenPercentOver100, freeDeliveryOver250},
		Brand:     testBrand,
		Location:  testLocation,
	})

	assertDecimal(t, dec(200), got.Subtotal, "subtotal")
	assertDecimal(t, decimal.Zero, got.ItemDiscount, "item discount")
	require.NotNil(t, got.VoucherDiscount)
	assert.Nil(t, got.CartDiscount, "automatic must lose to the larger voucher")
	assert.Equal(t, "SAVE30", got.VoucherDiscount.Name)
	assertDecimal(t, dec(30), got.VoucherDiscount.Amount, "voucher amount")
	assertDecimal(t, dec(170), got.CartTotal, "cart total")
	assertDecimal(t, dec(29), got.DeliveryFee, "delivery fee")
	assertDecimal(t, dec(0.5), got.BagFee, "bag fee")
	// 5% of the discounted cart total.
	assertDecimal(t, dec(8.5), got.AdminFee, "admin fee")
	assertDecimal(t, dec(208), got.CheckoutTotal, "checkout total")
	// VAT is back-calculated from the inclusive total: 208 * 25 / 125.
	assertDecimal(t, dec(41.6), got.VATAmount, "vat")
	assert.Equal(t, 2, got.ItemCount)
	assert.Equal(t, "SAVE30", got.FinalDiscountLabel)
	assertDecimal(t, dec(30), got.FinalDiscountAmount, "final discount amount")
}

func TestComputeAutomaticWinsWithoutVoucher(t *testing.T) {
	state := cart.State{
		DeliveryType: cart.DeliveryTypeDelivery,
		Items: []cart.Item{
			item("l1", "prod-diavola", 100, 100, 2),
		},
	}

	got := Compute(Snapshot{
		State:     state,
		Standards: []discount.Standard{tenPercentOver100},
		Brand:     testBrand,
		Location:  testLocation,
	})

	require.NotNil(t, got.CartDiscount)
	assert.Nil(t, got.VoucherDiscount)
	assertDecimal(t, dec(20), got.CartDiscount.Amount, "automatic amount")
	assertDecimal(t, dec(180), got.CartTotal, "cart total")
	assertDecimal(t, decimal.Zero, got.BagFee, "bag fee excluded when toggled off")
	assert.Equal(t, "10% off", got.FinalDiscountLabel)
}

func TestComputeItemDiscountAndLockedLines(t *testing.T) {
	promo := item("l1", "prod-margherita", 100, 80, 1)
	promo.Locked = true
	state := cart.State{
		DeliveryType: cart.DeliveryTypePickup,
		Items: []cart.Item{
			promo,
			item("l2", "prod-diavola", 60, 60, 1),
		},
	}

	got := Compute(Snapshot{
		State:     state,
		Standards: []discount.Standard{tenPercentOver100},
		Brand:     testBrand,
		Location:  testLocation,
	})

	assertDecimal(t, dec(160), got.Subtotal, "subtotal uses base prices")
	assertDecimal(t, dec(20), got.ItemDiscount, "item discount")
	// Only the unlocked 60 counts toward the 100 threshold, so the
	// automatic discount does not qualify.
	assert.Nil(t, got.CartDiscount)
	assertDecimal(t, dec(140), got.CartTotal, "cart total")
	assertDecimal(t, decimal.Zero, got.DeliveryFee, "no delivery fee on pickup")
	assert.Empty(t, got.FinalDiscountLabel, "item discounts carry no label")
	assertDecimal(t, dec(20), got.FinalDiscountAmount, "final discount amount")
}

func TestComputeFreeDelivery(t *testing.T) {
	state := cart.State{
		DeliveryType: cart.DeliveryTypeDelivery,
		Items: []cart.Item{
			item("l1", "prod-diavola", 100, 100, 3),
		},
		Voucher: &discount.Voucher{Code: "SAVE40", Method: discount.MethodFixed, Value: dec(40)},
	}

	got := Compute(Snapshot{
		State:     state,
		Standards: []discount.Standard{tenPercentOver100, freeDeliveryOver250},
		Brand:     testBrand,
		Location:  testLocation,
	})

	assert.True(t, got.FreeDeliveryApplied)
	assertDecimal(t, decimal.Zero, got.DeliveryFee, "waived delivery fee")
	require.NotNil(t, got.VoucherDiscount)
	assert.Equal(t, "SAVE40 + Free delivery", got.FinalDiscountLabel)
	// 40 voucher plus the waived 29 fee.
	assertDecimal(t, dec(69), got.FinalDiscountAmount, "final discount amount")
}

func TestComputeFreeDeliveryIndependentOfWinner(t *testing.T) {
	// The free-delivery basis is subtotal minus item discounts; the winning
	// cart-level discount must not reduce it below the threshold.
	state := cart.State{
		DeliveryType: cart.DeliveryTypeDelivery,
		Items: []cart.Item{
			item("l1", "prod-diavola", 130, 130, 2),
		},
		Voucher: &discount.Voucher{Code: "BIG", Method: discount.MethodFixed, Value: dec(100)},
	}

	got := Compute(Snapshot{
		State:     state,
		Standards: []discount.Standard{freeDeliveryOver250},
		Brand:     testBrand,
		Location:  testLocation,
	})

	assertDecimal(t, dec(160), got.CartTotal, "cart total after voucher")
	assert.True(t, got.FreeDeliveryApplied, "260 basis still clears the 250 threshold")
	assertDecimal(t, decimal.Zero, got.DeliveryFee, "delivery fee")
}

func TestComputeNeverNegative(t *testing.T) {
	state := cart.State{
		DeliveryType: cart.DeliveryTypePickup,
		Items: []cart.Item{
			item("l1", "prod-cola", 10, 10, 1),
		},
		Voucher: &discount.Voucher{Code: "HUGE", Method: discount.MethodFixed, Value: dec(500)},
	}

	got := Compute(Snapshot{
		State:    state,
		Brand:    testBrand,
		Location: testLocation,
	})

	assert.False(t, got.CartTotal.IsNegative(), "cart total floored at zero")
	assert.False(t, got.CheckoutTotal.IsNegative(), "checkout total floored at zero")
	assertDecimal(t, decimal.Zero, got.CartTotal, "cart total")
}

func TestComputeFixedAdminFee(t *testing.T) {
	brand := testBrand
	brand.AdminFee = dec(7)
	brand.AdminFeeType = AdminFeeFixed

	got := Compute(Snapshot{
		State: cart.State{
			DeliveryType: cart.DeliveryTypePickup,
			Items:        []cart.Item{item("l1", "prod-cola", 25, 25, 2)},
		},
		Brand:    brand,
		Location: testLocation,
	})

	assertDecimal(t, dec(7), got.AdminFee, "fixed admin fee")
	assertDecimal(t, dec(57), got.CheckoutTotal, "checkout total")
}

func TestComputeDefaultVATRate(t *testing.T) {
	brand := testBrand
	brand.VATPercentage = decimal.Zero
	brand.AdminFee = decimal.Zero
	brand.BagFee = decimal.Zero

	got := Compute(Snapshot{
		State: cart.State{
			DeliveryType: cart.DeliveryTypePickup,
			Items:        []cart.Item{item("l1", "prod-cola", 125, 125, 1)},
		},
		Brand:    brand,
		Location: testLocation,
	})

	// Unconfigured brands fall back to 25%: 125 * 25 / 125 = 25.
	assertDecimal(t, dec(25), got.VATAmount, "vat")
}

func TestComputeToppingsPriced(t *testing.T) {
	it := item("l1", "prod-margherita", 89, 89, 2)
	it.Toppings = []cart.Topping{{Name: "Extra cheese", Price: dec(10)}}

	got := Compute(Snapshot{
		State: cart.State{
			DeliveryType: cart.DeliveryTypePickup,
			Items:        []cart.Item{it},
		},
		Brand:    testBrand,
		Location: testLocation,
	})

	// (89 + 10) * 2, toppings charged once per unit.
	assertDecimal(t, dec(198), got.Subtotal, "subtotal")
}

func TestComputeIdempotent(t *testing.T) {
	snap := Snapshot{
		State: cart.State{
			DeliveryType:  cart.DeliveryTypeDelivery,
			IncludeBagFee: true,
			Items:         []cart.Item{item("l1", "prod-diavola", 105, 105, 2)},
			Voucher:       &discount.Voucher{Code: "SAVE30", Method: discount.MethodFixed, Value: dec(30), MinOrderValue: dec(50)},
		},
		Standards: []discount.Standard{tenPercentOver100, freeDeliveryOver250},
		Brand:     testBrand,
		Location:  testLocation,
	}

	first := Compute(snap)
	second := Compute(snap)
	assert.Equal(t, first, second)
}

func TestPaymentDetails(t *testing.T) {
	got := Compute(Snapshot{
		State: cart.State{
			DeliveryType:  cart.DeliveryTypeDelivery,
			IncludeBagFee: true,
			Items:         []cart.Item{item("l1", "prod-diavola", 100, 100, 2)},
		},
		Standards: []discount.Standard{tenPercentOver100},
		Brand:     testBrand,
		Location:  testLocation,
	})

	pd := got.PaymentDetails()
	assertDecimal(t, dec(200), pd.Subtotal, "subtotal")
	assertDecimal(t, decimal.Zero, pd.ItemDiscountTotal, "item discount total")
	assertDecimal(t, dec(20), pd.CartDiscountTotal, "cart discount total")
	assertDecimal(t, dec(29), pd.DeliveryFee, "delivery fee")
	assertDecimal(t, dec(0.5), pd.BagFee, "bag fee")
	assertDecimal(t, got.AdminFee, pd.AdminFee, "admin fee")
	assertDecimal(t, got.VATAmount, pd.VATAmount, "vat")
}
