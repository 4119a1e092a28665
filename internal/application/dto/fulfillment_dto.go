package dto

import "github.com/shopspring/decimal"

// SaleLineRequest one product line on a sale.
type SaleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SaleRequest input for the sale fulfillment event.
type SaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	PaymentMethod string            `json:"payment_method"`
	InterState    bool              `json:"inter_state"`
	Lines         []SaleLineRequest `json:"lines"`
}

// SaleLineResponse a priced, committed sale line with its bound units.
type SaleLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	UnitIDs   []string        `json:"unit_ids"`
	UnitTags  []string        `json:"unit_tags"`
}

// SaleResponse result of a committed sale.
type SaleResponse struct {
	OrderID       string             `json:"order_id"`
	InvoiceNumber string             `json:"invoice_number"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	CGST          decimal.Decimal    `json:"cgst"`
	SGST          decimal.Decimal    `json:"sgst"`
	IGST          decimal.Decimal    `json:"igst"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	Lines         []SaleLineResponse `json:"lines"`
}

// ReturnRequest input for returning a committed order.
type ReturnRequest struct {
	OrderID     string           `json:"order_id"`
	Restock     bool             `json:"restock"`
	NewUnitCost *decimal.Decimal `json:"new_unit_cost,omitempty"` // optional new cost basis for restocked units
	Reason      string           `json:"reason"`
}

// ReturnResponse result of a committed return.
type ReturnResponse struct {
	OrderID      string          `json:"order_id"`
	ReturnedQty  int             `json:"returned_qty"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// PurchaseOrderItemRequest one line when creating a purchase order.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderRequest input for creating a purchase order.
type PurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id"`
	Items      []PurchaseOrderItemRequest `json:"items"`
}

// PurchaseOrderResponse a purchase order with its items.
type PurchaseOrderResponse struct {
	ID         string                      `json:"id"`
	SupplierID string                      `json:"supplier_id"`
	Status     string                      `json:"status"`
	Items      []PurchaseOrderItemResponse `json:"items"`
}

// PurchaseOrderItemResponse one PO line with delivery progress.
type PurchaseOrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	OrderedQty  int             `json:"ordered_qty"`
	ReceivedQty int             `json:"received_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Status      string          `json:"status"`
}

// PurchaseReceiptRequest input for receiving stock against a purchase order.
type PurchaseReceiptRequest struct {
	POID        string `json:"po_id"`
	ProductID   string `json:"product_id"`
	ReceivedQty int    `json:"received_qty"`
}

// PurchaseReceiptResponse result of a committed goods receipt.
type PurchaseReceiptResponse struct {
	ReceiptID  string   `json:"receipt_id"`
	POStatus   string   `json:"po_status"`
	ItemStatus string   `json:"item_status"`
	UnitIDs    []string `json:"unit_ids"`
	UnitTags   []string `json:"unit_tags"`
}

// ExchangeRequest input for an exchange event: one returned piece (identified
// by its tag) swapped for one new piece.
type ExchangeRequest struct {
	CustomerID      string `json:"customer_id"`
	ReturnedUnitTag string `json:"returned_unit_tag"`
	NewProductID    string `json:"new_product_id"`
	PaymentMethod   string `json:"payment_method"`
	InterState      bool   `json:"inter_state"`
}

// ExchangeResponse result of a committed exchange.
type ExchangeResponse struct {
	ExchangeID  string          `json:"exchange_id"`
	NewUnitID   string          `json:"new_unit_id"`
	NewValue    decimal.Decimal `json:"new_value"`
	ReturnValue decimal.Decimal `json:"return_value"`
	NetBalance  decimal.Decimal `json:"net_balance"`
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// AdjustmentRequest input for a corrective adjustment. Quantity is signed:
// positive registers found stock, negative writes off loss/damage.
type AdjustmentRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Reason    string           `json:"reason"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"` // required for positive adjustments
}

// AdjustmentResponse result of a committed adjustment.
type AdjustmentResponse struct {
	AdjustmentID string `json:"adjustment_id"`
	Quantity     int    `json:"quantity"`
}

// TransferRequest input for a location transfer. Stock identity is unchanged;
// the ledger records the paired movement.
type TransferRequest struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
}

// TransferResponse result of a committed transfer.
type TransferResponse struct {
	TransferID string `json:"transfer_id"`
}

// RateRequest input for registering a metal rate.
type RateRequest struct {
	MetalType   string          `json:"metal_type"`
	Purity      string          `json:"purity"`
	RatePerGram decimal.Decimal `json:"rate_per_gram"`
}
