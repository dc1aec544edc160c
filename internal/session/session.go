package session

import (
	"time"

	"github.com/google/uuid"
)

// Step is the user's current position in the order wizard.
type Step string

const (
	StepSelectingProducts Step = "selecting_products"
	StepEnteringAddress   Step = "entering_shipping_address"
	StepEnteringPhone     Step = "entering_phone"
	StepConfirmingOrder   Step = "confirming_order"
	StepAwaitingPayment   Step = "waiting_for_payment"
)

func (s Step) String() string {
	return string(s)
}

// stepSuccessors defines the forward path of the wizard. Reset is always
// allowed and is not part of this table.
var stepSuccessors = map[Step][]Step{
	StepSelectingProducts: {StepEnteringAddress},
	StepEnteringAddress:   {StepEnteringPhone},
	StepEnteringPhone:     {StepConfirmingOrder},
	StepConfirmingOrder:   {StepAwaitingPayment},
	StepAwaitingPayment:   {},
}

// CanAdvance reports whether the wizard may move from s to next.
func (s Step) CanAdvance(next Step) bool {
	for _, allowed := range stepSuccessors[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Draft accumulates the wizard's intermediate answers before they are
// committed to the order.
type Draft struct {
	OrderID uuid.UUID
	Address string
	Phone   string
	Method  string
}

// Session is one user's wizard state. At most one session exists per user.
type Session struct {
	UserID    int64
	Step      Step
	Draft     Draft
	UpdatedAt time.Time
}
