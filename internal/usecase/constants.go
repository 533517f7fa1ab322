package usecase

// Entry type tags carried by posting batches. They classify GL activity for
// reporting and let reversals be told apart from originals.
const (
	EntryTypeManualJournal    = "ManualJournal"
	EntryTypeSalesInvoice     = "SalesInvoice"
	EntryTypeVendorBill       = "VendorBill"
	EntryTypeCustomerPayment  = "CustomerPayment"
	EntryTypeVendorPayment    = "VendorPayment"
	EntryTypeCashReceipt      = "CashReceipt"
	EntryTypeCashDisbursement = "CashDisbursement"
	EntryTypeBankTransfer     = "BankTransfer"
	EntryTypeInvoiceVoid      = "InvoiceVoid"
	EntryTypeBillVoid         = "BillVoid"
)
