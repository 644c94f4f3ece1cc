package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLineItemValidate_AcceptsCompleteItem(t *testing.T) {
	require.NoError(t, validItem().Validate())
}

func TestLineItemValidate_RequiredFields(t *testing.T) {
	item := validItem()
	item.Merk = ""
	item.Receiver = ""

	err := item.Validate()
	require.ErrorIs(t, err, ErrInvalidItems)

	var verr *ItemsValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "merk")
	require.Contains(t, verr.Fields, "receiver")
	require.NotContains(t, verr.Fields, "color")
}

func TestLineItemValidate_QtyMustBePositive(t *testing.T) {
	item := validItem()
	item.Qty = 0
	var verr *ItemsValidationError
	require.ErrorAs(t, item.Validate(), &verr)
	require.Contains(t, verr.Fields, "qty")

	item.Qty = -3
	require.ErrorAs(t, item.Validate(), &verr)
	require.Contains(t, verr.Fields, "qty")
}

func TestLineItemValidate_NegativeMoneyRejected(t *testing.T) {
	item := validItem()
	item.BudgetMax = decimal.NewFromInt(-1)
	item.DeliveryFee = decimal.NewFromInt(-500)

	var verr *ItemsValidationError
	require.ErrorAs(t, item.Validate(), &verr)
	require.Contains(t, verr.Fields, "budgetMax")
	require.Contains(t, verr.Fields, "deliveryFee")
	require.NotContains(t, verr.Fields, "taxCost")
}

func TestLineItemValidate_DeliveryDateLeadTime(t *testing.T) {
	item := validItem()
	item.DeliveryDate = time.Now().AddDate(0, 0, MinDeliveryLeadDays-1)

	var verr *ItemsValidationError
	require.ErrorAs(t, item.Validate(), &verr)
	require.Contains(t, verr.Fields, "deliveryDate")

	item.DeliveryDate = time.Time{}
	require.ErrorAs(t, item.Validate(), &verr)
	require.Contains(t, verr.Fields, "deliveryDate")

	item.DeliveryDate = time.Now().AddDate(0, 0, MinDeliveryLeadDays+1)
	require.NoError(t, item.Validate())
}

func TestLineItemValidate_AddressModes(t *testing.T) {
	item := validItem()
	item.DeliveryAddress = KnownDeliveryAddresses[1]
	require.NoError(t, item.Validate())

	// "other" demands a custom address.
	item.DeliveryAddress = DeliveryAddressOther
	item.CustomDeliveryAddress = ""
	var verr *ItemsValidationError
	require.ErrorAs(t, item.Validate(), &verr)
	require.Contains(t, verr.Fields, "customDeliveryAddress")

	item.CustomDeliveryAddress = "Jl. Kemang Raya No. 12, Jakarta Selatan"
	require.NoError(t, item.Validate())

	// Free text outside the known enumeration must go through "other".
	item.DeliveryAddress = "some office somewhere"
	var addrErr *ItemsValidationError
	require.ErrorAs(t, item.Validate(), &addrErr)
	require.Contains(t, addrErr.Fields, "deliveryAddress")
}

func TestValidateItems_PrefixesFieldKeysByPosition(t *testing.T) {
	first := validItem()
	second := validItem()
	second.Color = ""
	second.Qty = 0

	err := ValidateItems([]LineItem{first, second})
	require.ErrorIs(t, err, ErrInvalidItems)

	var verr *ItemsValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "items[1].color")
	require.Contains(t, verr.Fields, "items[1].qty")
	for key := range verr.Fields {
		require.NotContains(t, key, "items[0]")
	}
}

func TestValidateItems_EmptyList(t *testing.T) {
	require.ErrorIs(t, ValidateItems(nil), ErrNoItems)
	require.ErrorIs(t, ValidateItems([]LineItem{}), ErrNoItems)
}
