package enum

// PaymentType is the tender method used to settle (part of) a sale.
type PaymentType string

const (
	PaymentTypeCash     PaymentType = "cash"
	PaymentTypeCard     PaymentType = "card"
	PaymentTypeTransfer PaymentType = "transfer"
	PaymentTypeWallet   PaymentType = "wallet"
)

// IsValid reports whether the payment type is one of the known tenders.
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeCard, PaymentTypeTransfer, PaymentTypeWallet:
		return true
	}
	return false
}

// IsCash reports whether this tender moves physical cash through the drawer.
// Only cash tenders count toward a session's expected cash at close.
func (p PaymentType) IsCash() bool {
	return p == PaymentTypeCash
}
