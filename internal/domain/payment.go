package domain

// PaymentMethod is the wire key of a payment method.
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCard   PaymentMethod = "cartao"
	PaymentBoleto PaymentMethod = "boleto"
)

// PaymentSelection is a sum type over the supported payment methods. Exactly
// one variant is active; switching methods replaces the whole value, so fields
// of the previous method never leak into validation or the outbound payload.
type PaymentSelection interface {
	Method() PaymentMethod
}

// PixPayment carries no fields; an instant transfer is arranged after the
// order is confirmed.
type PixPayment struct{}

func (PixPayment) Method() PaymentMethod { return PaymentPix }

// CardPayment holds the card form fields.
type CardPayment struct {
	HolderName string
	Number     string
	Expiry     string
	CVV        string
}

func (CardPayment) Method() PaymentMethod { return PaymentCard }

// BoletoPayment holds the payer tax id for a bank slip.
type BoletoPayment struct {
	PayerCPF string
}

func (BoletoPayment) Method() PaymentMethod { return PaymentBoleto }
