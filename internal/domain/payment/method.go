package payment

// Method is a payment method offered at checkout
type Method string

const (
	MethodBankTransfer Method = "bank_transfer"
	MethodPromptPay    Method = "promptpay"
	MethodTrueMoney    Method = "truemoney"
	MethodCreditCard   Method = "credit_card"
)

// MethodInfo describes a method for the checkout page
type MethodInfo struct {
	Code        Method `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var methods = []MethodInfo{
	{Code: MethodBankTransfer, Name: "Bank Transfer", Description: "Transfer from a Thai bank account"},
	{Code: MethodPromptPay, Name: "PromptPay", Description: "Scan a PromptPay QR code"},
	{Code: MethodTrueMoney, Name: "TrueMoney Wallet", Description: "Pay with TrueMoney Wallet"},
	{Code: MethodCreditCard, Name: "Credit/Debit Card", Description: "Visa, Mastercard, JCB"},
}

// Methods returns the methods offered at checkout, in display order
func Methods() []MethodInfo {
	out := make([]MethodInfo, len(methods))
	copy(out, methods)
	return out
}

// IsValid returns true for a known method
func (m Method) IsValid() bool {
	switch m {
	case MethodBankTransfer, MethodPromptPay, MethodTrueMoney, MethodCreditCard:
		return true
	default:
		return false
	}
}

// DisplayName returns the human readable name, or the code for unknown methods
func (m Method) DisplayName() string {
	for _, info := range methods {
		if info.Code == m {
			return info.Name
		}
	}
	return string(m)
}
