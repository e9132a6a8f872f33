package fields

var financial = in("Financial",
	field("revenue", "Revenue", num, "Income from sales before costs", "$1,250.00", "980.50", "15000"),
	field("total_amount", "Total Amount", num, "Total charged for a transaction", "$249.99", "1,200.00", "75.5"),
	field("profit", "Profit", num, "Revenue minus costs", "$320.00", "45.75", "-12.40"),
	field("cost", "Cost", num, "Total cost incurred", "$180.00", "62.30", "900"),
	field("unit_cost", "Unit Cost", num, "Cost to acquire or produce one unit", "$4.25", "12.99", "0.85"),
	field("unit_price", "Unit Price", num, "Selling price of one unit", "$19.99", "4.50", "120"),
	field("subtotal", "Subtotal", num, "Amount before tax and shipping", "$230.00", "99.95"),
	field("tax_amount", "Tax Amount", num, "Tax charged on the transaction", "$8.25", "12.00"),
	field("tax_rate", "Tax Rate", num, "Applied tax percentage", "8.25%", "0.07"),
	field("discount", "Discount", num, "Discount applied to the order", "$5.00", "10%", "15"),
	field("shipping_cost", "Shipping Cost", num, "Amount charged or paid for shipping", "$7.99", "0", "25"),
	field("refund_amount", "Refund Amount", num, "Amount returned to the customer", "$49.99", "120.00"),
	field("gross_margin", "Gross Margin", num, "Gross profit as a share of revenue", "42%", "0.38", "55.5"),
	field("net_income", "Net Income", num, "Earnings after all expenses", "$12,400", "-850"),
	field("operating_expenses", "Operating Expenses", num, "Costs of running the business", "$8,200", "15000"),
	field("budget", "Budget", num, "Planned spend for a period", "$50,000", "12000"),
	field("currency", "Currency", str, "ISO currency of the amount", "USD", "EUR", "GBP"),
	field("exchange_rate", "Exchange Rate", num, "Conversion rate to the reporting currency", "1.08", "0.92"),
	field("payment_method", "Payment Method", str, "How the customer paid", "Credit Card", "PayPal", "Cash"),
	field("payment_status", "Payment Status", str, "Settlement state of the payment", "Paid", "Pending", "Refunded"),
	field("invoice_number", "Invoice Number", str, "Invoice reference", "INV-1001", "2024-0042"),
	field("account_number", "Account Number", str, "Ledger or bank account reference", "ACC-00123", "4010"),
)
