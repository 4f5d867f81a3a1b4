package enums

import "fmt"

// TicketCategory is the closed set of complaint categories a customer can file.
type TicketCategory string

const (
	TicketCategoryOrderIssue      TicketCategory = "order_issue"
	TicketCategoryDeliveryDelay   TicketCategory = "delivery_delay"
	TicketCategoryDamagedGoods    TicketCategory = "damaged_goods"
	TicketCategoryWrongItem       TicketCategory = "wrong_item"
	TicketCategoryPaymentIssue    TicketCategory = "payment_issue"
	TicketCategoryRefundRequest   TicketCategory = "refund_request"
	TicketCategoryAccountIssue    TicketCategory = "account_issue"
	TicketCategorySupplierDispute TicketCategory = "supplier_dispute"
	TicketCategoryAppProblem      TicketCategory = "app_problem"
	TicketCategoryOther           TicketCategory = "other"
)

var validTicketCategories = []TicketCategory{
	TicketCategoryOrderIssue,
	TicketCategoryDeliveryDelay,
	TicketCategoryDamagedGoods,
	TicketCategoryWrongItem,
	TicketCategoryPaymentIssue,
	TicketCategoryRefundRequest,
	TicketCategoryAccountIssue,
	TicketCategorySupplierDispute,
	TicketCategoryAppProblem,
	TicketCategoryOther,
}

// String implements fmt.Stringer.
func (t TicketCategory) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketCategory.
func (t TicketCategory) IsValid() bool {
	for _, candidate := range validTicketCategories {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketCategory converts raw input into a TicketCategory.
func ParseTicketCategory(value string) (TicketCategory, error) {
	for _, candidate := range validTicketCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket category %q", value)
}
