package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DeliveryAddressOther is the sentinel selecting a free-text address.
const DeliveryAddressOther = "other"

// MinDeliveryLeadDays is the minimum horizon between submission and the
// estimated delivery date.
const MinDeliveryLeadDays = 7

// KnownDeliveryAddresses enumerates the office addresses a requester may
// pick without supplying a custom one. The strings come from the procurement
// front office and must match stored records byte for byte.
var KnownDeliveryAddresses = []string{
	"Cyber 2 Tower Lt. 28 Jl. H. R. Rasuna Said No.13, RT.7/RW.2, Kuningan, Kecamatan Setiabudi, Kota Jakarta Selatan, Daerah Khusus Ibukota Jakarta 12950",
	"Mall Balekota Tangerang Lt. 1 Jl. Jenderal Sudirman No.3, RT.002/RW.012, Buaran Indah, Kec. Tangerang, Kota Tangerang, Banten 15119",
}

// LineItem is one ordered row of a purchase request. Field names follow the
// stored payload of the legacy system (merk = brand).
type LineItem struct {
	Merk                  string          `json:"merk" validate:"required"`
	DetailSpecs           string          `json:"detailSpecs" validate:"required"`
	Color                 string          `json:"color" validate:"required"`
	Qty                   int             `json:"qty" validate:"gt=0"`
	UOM                   string          `json:"uom" validate:"required"`
	LinkRef               string          `json:"linkRef" validate:"required"`
	BudgetMax             decimal.Decimal `json:"budgetMax"`
	TaxCost               decimal.Decimal `json:"taxCost"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	DeliveryDate          time.Time       `json:"deliveryDate"`
	Receiver              string          `json:"receiver" validate:"required"`
	DeliveryAddress       string          `json:"deliveryAddress" validate:"required"`
	CustomDeliveryAddress string          `json:"customDeliveryAddress,omitempty"`
}

// ErrInvalidItems is the sentinel matched by errors.Is for any line item
// validation failure; the concrete error carries per-field detail.
var ErrInvalidItems = errors.New("invalid line items")

// ItemsValidationError reports which item fields failed validation, keyed
// like "items[0].deliveryDate" so the form layer can highlight them.
type ItemsValidationError struct {
	Fields map[string]string
}

func (e *ItemsValidationError) Error() string {
	return fmt.Sprintf("%v: %d field(s) failed", ErrInvalidItems, len(e.Fields))
}

// Is lets callers match the sentinel without inspecting fields.
func (e *ItemsValidationError) Is(target error) bool {
	return target == ErrInvalidItems
}

var itemValidate = newItemValidator()

func newItemValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterStructValidation(lineItemStructLevel, LineItem{})
	return v
}

func lineItemStructLevel(sl validator.StructLevel) {
	item := sl.Current().Interface().(LineItem)

	if item.BudgetMax.IsNegative() {
		sl.ReportError(item.BudgetMax, "budgetMax", "BudgetMax", "nonnegative", "")
	}
	if item.TaxCost.IsNegative() {
		sl.ReportError(item.TaxCost, "taxCost", "TaxCost", "nonnegative", "")
	}
	if item.DeliveryFee.IsNegative() {
		sl.ReportError(item.DeliveryFee, "deliveryFee", "DeliveryFee", "nonnegative", "")
	}

	earliest := time.Now().AddDate(0, 0, MinDeliveryLeadDays)
	if item.DeliveryDate.IsZero() || item.DeliveryDate.Before(earliest) {
		sl.ReportError(item.DeliveryDate, "deliveryDate", "DeliveryDate", "leaddays", "")
	}

	switch item.DeliveryAddress {
	case "":
		// covered by the required tag
	case DeliveryAddressOther:
		if strings.TrimSpace(item.CustomDeliveryAddress) == "" {
			sl.ReportError(item.CustomDeliveryAddress, "customDeliveryAddress", "CustomDeliveryAddress", "required_with_other", "")
		}
	default:
		if !isKnownAddress(item.DeliveryAddress) {
			sl.ReportError(item.DeliveryAddress, "deliveryAddress", "DeliveryAddress", "known_address", "")
		}
	}
}

func isKnownAddress(address string) bool {
	for _, known := range KnownDeliveryAddresses {
		if address == known {
			return true
		}
	}
	return false
}

// Validate checks one line item against every field invariant. It returns
// nil or an *ItemsValidationError keyed by bare field names.
func (li LineItem) Validate() error {
	fields := collectFieldErrors(itemValidate.Struct(li), "")
	if len(fields) == 0 {
		return nil
	}
	return &ItemsValidationError{Fields: fields}
}

// ValidateItems checks the whole ordered item list: it must be non-empty and
// every item must satisfy its invariants. Field keys are prefixed with the
// item position, matching the form layout.
func ValidateItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	fields := map[string]string{}
	for i, item := range items {
		prefix := fmt.Sprintf("items[%d].", i)
		for key, msg := range collectFieldErrors(itemValidate.Struct(item), prefix) {
			fields[key] = msg
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ItemsValidationError{Fields: fields}
}

func collectFieldErrors(err error, prefix string) map[string]string {
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields[prefix+"items"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[prefix+fe.Field()] = fieldErrorMessage(fe)
	}
	return fields
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gt":
		return "must be a positive whole number"
	case "nonnegative":
		return "must not be negative"
	case "leaddays":
		return fmt.Sprintf("delivery date must be at least %d days from today", MinDeliveryLeadDays)
	case "required_with_other":
		return "custom delivery address is required when 'other' is selected"
	case "known_address":
		return "delivery address must be a known office address or 'other'"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
