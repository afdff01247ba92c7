package models

import (
	"github.com/shopspring/decimal"
)

// Labels the checkout form uses for its fields. Name and address are shown
// with their zh_TW labels and have to be mapped back to canonical fields.
const (
	LabelName    = "姓名"
	LabelEmail   = "email"
	LabelTel     = "tel"
	LabelAddress = "地址"
)

// OrderForm is the order payload: the customer plus a free-text message.
type OrderForm struct {
	User    Customer `json:"user"`
	Message string   `json:"message"`
}

// OrderResult is the store API reply to a submitted order.
type OrderResult struct {
	OrderID  string          `json:"orderId"`
	Total    decimal.Decimal `json:"total"`
	CreateAt int64           `json:"create_at"`
	Message  string          `json:"message"`
}

// CheckoutForm binds the labelled checkout fields. Validation happens in the
// binding engine before anything is sent to the API.
type CheckoutForm struct {
	Name    string `form:"姓名" json:"姓名" binding:"required"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Tel     string `form:"tel" json:"tel" binding:"twphone"`
	Address string `form:"地址" json:"地址" binding:"required"`
	Message string `form:"message" json:"message"`
}

// Labels returns the customer fields keyed by their form labels.
func (f CheckoutForm) Labels() map[string]string {
	return map[string]string{
		LabelName:    f.Name,
		LabelEmail:   f.Email,
		LabelTel:     f.Tel,
		LabelAddress: f.Address,
	}
}

// CustomerFromLabels maps labelled form values onto canonical customer
// fields. Missing labels leave the field empty.
func CustomerFromLabels(values map[string]string) Customer {
	return Customer{
		Name:    values[LabelName],
		Email:   values[LabelEmail],
		Tel:     values[LabelTel],
		Address: values[LabelAddress],
	}
}
