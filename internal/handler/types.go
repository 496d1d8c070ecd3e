package handler

import (
	"github.com/shopspring/decimal"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
	"github.com/digiflydk/orderfly-cart/internal/domain/pricing"
	"github.com/digiflydk/orderfly-cart/internal/domain/upsell"
)

// Request bodies.

type createCartRequest struct {
	BrandID      string `json:"brandId"`
	LocationID   string `json:"locationId"`
	DeliveryType string `json:"deliveryType"`
}

type toppingRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type comboSelectionRequest struct {
	GroupName  string   `json:"groupName"`
	ProductIDs []string `json:"productIds"`
}

type addItemRequest struct {
	ID              string                  `json:"id"`
	ItemType        string                  `json:"itemType"`
	Name            string                  `json:"name"`
	BasePrice       float64                 `json:"basePrice"`
	Price           *float64                `json:"price"`
	Quantity        int                     `json:"quantity"`
	Toppings        []toppingRequest        `json:"toppings"`
	ComboSelections []comboSelectionRequest `json:"comboSelections"`
	CategoryID      string                  `json:"categoryId"`
	Locked          bool                    `json:"locked"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type applyVoucherRequest struct {
	Code string `json:"code"`
}

type setDeliveryRequest struct {
	DeliveryType string `json:"deliveryType"`
}

type setBagFeeRequest struct {
	Include bool `json:"include"`
}

// Response bodies.

type appliedDiscountJSON struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type finalDiscountJSON struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type totalsJSON struct {
	Subtotal            float64              `json:"subtotal"`
	ItemDiscount        float64              `json:"itemDiscount"`
	CartDiscount        *appliedDiscountJSON `json:"cartDiscount"`
	VoucherDiscount     *appliedDiscountJSON `json:"voucherDiscount"`
	FreeDeliveryApplied bool                 `json:"freeDeliveryDiscountApplied"`
	DeliveryFee         float64              `json:"deliveryFee"`
	BagFee              float64              `json:"bagFee"`
	AdminFee            float64              `json:"adminFee"`
	CartTotal           float64              `json:"cartTotal"`
	CheckoutTotal       float64              `json:"checkoutTotal"`
	VATAmount           float64              `json:"vatAmount"`
	ItemCount           int                  `json:"itemCount"`
	FinalDiscount       finalDiscountJSON    `json:"finalDiscount"`
}

type paymentDetailsJSON struct {
	Subtotal          float64 `json:"subtotal"`
	ItemDiscountTotal float64 `json:"itemDiscountTotal"`
	CartDiscountTotal float64 `json:"cartDiscountTotal"`
	DeliveryFee       float64 `json:"deliveryFee"`
	BagFee            float64 `json:"bagFee"`
	AdminFee          float64 `json:"adminFee"`
	VATAmount         float64 `json:"vatAmount"`
}

type itemJSON struct {
	LineID          string                  `json:"lineId"`
	ID              string                  `json:"id"`
	ItemType        string                  `json:"itemType"`
	Name            string                  `json:"name"`
	BasePrice       float64                 `json:"basePrice"`
	Price           float64                 `json:"price"`
	Quantity        int                     `json:"quantity"`
	Toppings        []toppingRequest        `json:"toppings,omitempty"`
	ComboSelections []comboSelectionRequest `json:"comboSelections,omitempty"`
	CategoryID      string                  `json:"categoryId,omitempty"`
	LineTotal       float64                 `json:"lineTotal"`
}

type cartResponse struct {
	ID             string             `json:"id"`
	BrandID        string             `json:"brandId"`
	LocationID     string             `json:"locationId"`
	DeliveryType   string             `json:"deliveryType"`
	IncludeBagFee  bool               `json:"includeBagFee"`
	VoucherCode    string             `json:"voucherCode,omitempty"`
	Items          []itemJSON         `json:"items"`
	Totals         totalsJSON         `json:"totals"`
	PaymentDetails paymentDetailsJSON `json:"paymentDetails"`
}

type offeredProductJSON struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type upsellOfferJSON struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	DiscountMethod string               `json:"discountMethod"`
	DiscountValue  float64              `json:"discountValue"`
	Products       []offeredProductJSON `json:"products"`
}

type checkoutIntentResponse struct {
	Upsell *upsellOfferJSON `json:"upsell"`
}

// Mapping helpers.

func toCartResponse(state cart.State, totals pricing.Totals) cartResponse {
	items := make([]itemJSON, len(state.Items))
	for i, it := range state.Items {
		items[i] = toItemJSON(it)
	}

	voucherCode := ""
	if state.Voucher != nil {
		voucherCode = state.Voucher.Code
	}

	return cartResponse{
		ID:             state.ID,
		BrandID:        state.BrandID,
		LocationID:     state.LocationID,
		DeliveryType:   string(state.DeliveryType),
		IncludeBagFee:  state.IncludeBagFee,
		VoucherCode:    voucherCode,
		Items:          items,
		Totals:         toTotalsJSON(totals),
		PaymentDetails: toPaymentDetailsJSON(totals.PaymentDetails()),
	}
}

func toItemJSON(it cart.Item) itemJSON {
	toppings := make([]toppingRequest, len(it.Toppings))
	for i, t := range it.Toppings {
		toppings[i] = toppingRequest{Name: t.Name, Price: t.Price.InexactFloat64()}
	}
	selections := make([]comboSelectionRequest, len(it.ComboSelections))
	for i, cs := range it.ComboSelections {
		selections[i] = comboSelectionRequest{GroupName: cs.GroupName, ProductIDs: cs.ProductIDs}
	}
	return itemJSON{
		LineID:          it.LineID,
		ID:              it.ID,
		ItemType:        string(it.ItemType),
		Name:            it.Name,
		BasePrice:       it.BasePrice.InexactFloat64(),
		Price:           it.Price.InexactFloat64(),
		Quantity:        it.Quantity,
		Toppings:        toppings,
		ComboSelections: selections,
		CategoryID:      it.CategoryID,
		LineTotal:       it.LineTotal().Round(2).InexactFloat64(),
	}
}

func toTotalsJSON(t pricing.Totals) totalsJSON {
	return totalsJSON{
		Subtotal:            t.Subtotal.InexactFloat64(),
		ItemDiscount:        t.ItemDiscount.InexactFloat64(),
		CartDiscount:        toAppliedJSON(t.CartDiscount),
		VoucherDiscount:     toAppliedJSON(t.VoucherDiscount),
		FreeDeliveryApplied: t.FreeDeliveryApplied,
		DeliveryFee:         t.DeliveryFee.InexactFloat64(),
		BagFee:              t.BagFee.InexactFloat64(),
		AdminFee:            t.AdminFee.InexactFloat64(),
		CartTotal:           t.CartTotal.InexactFloat64(),
		CheckoutTotal:       t.CheckoutTotal.InexactFloat64(),
		VATAmount:           t.VATAmount.InexactFloat64(),
		ItemCount:           t.ItemCount,
		FinalDiscount: finalDiscountJSON{
			Label:  t.FinalDiscountLabel,
			Amount: t.FinalDiscountAmount.InexactFloat64(),
		},
	}
}

func toPaymentDetailsJSON(p pricing.PaymentDetails) paymentDetailsJSON {
	return paymentDetailsJSON{
		Subtotal:          p.Subtotal.InexactFloat64(),
		ItemDiscountTotal: p.ItemDiscountTotal.InexactFloat64(),
		CartDiscountTotal: p.CartDiscountTotal.InexactFloat64(),
		DeliveryFee:       p.DeliveryFee.InexactFloat64(),
		BagFee:            p.BagFee.InexactFloat64(),
		AdminFee:          p.AdminFee.InexactFloat64(),
		VATAmount:         p.VATAmount.InexactFloat64(),
	}
}

func toAppliedJSON(a *discount.Applied) *appliedDiscountJSON {
	if a == nil {
		return nil
	}
	return &appliedDiscountJSON{Name: a.Name, Amount: a.Amount.InexactFloat64()}
}

func toUpsellOfferJSON(m *upsell.Match) *upsellOfferJSON {
	if m == nil {
		return nil
	}
	products := make([]offeredProductJSON, len(m.Offered))
	for i, p := range m.Offered {
		products[i] = offeredProductJSON{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.InexactFloat64(),
			ImageURL: p.ImageURL,
		}
	}
	return &upsellOfferJSON{
		ID:             m.Campaign.ID,
		Name:           m.Campaign.Name,
		DiscountMethod: string(m.Campaign.DiscountMethod),
		DiscountValue:  m.Campaign.DiscountValue.InexactFloat64(),
		Products:       products,
	}
}

func (r addItemRequest) toItem(lineID, brandID string) cart.Item {
	toppings := make([]cart.Topping, len(r.Toppings))
	for i, t := range r.Toppings {
		toppings[i] = cart.Topping{Name: t.Name, Price: decimal.NewFromFloat(t.Price)}
	}
	selections := make([]cart.ComboSelection, len(r.ComboSelections))
	for i, cs := range r.ComboSelections {
		selections[i] = cart.ComboSelection{GroupName: cs.GroupName, ProductIDs: cs.ProductIDs}
	}

	basePrice := decimal.NewFromFloat(r.BasePrice)
	price := basePrice
	if r.Price != nil {
		price = decimal.NewFromFloat(*r.Price)
	}

	itemType := cart.ItemType(r.ItemType)
	if itemType == "" {
		itemType = cart.ItemTypeProduct
	}

	return cart.Item{
		LineID:          lineID,
		ID:              r.ID,
		ItemType:        itemType,
		Name:            r.Name,
		BasePrice:       basePrice,
		Price:           price,
		Quantity:        r.Quantity,
		Toppings:        toppings,
		ComboSelections: selections,
		CategoryID:      r.CategoryID,
		BrandID:         brandID,
		Locked:          r.Locked,
	}
}
