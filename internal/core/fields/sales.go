package fields

var sales = in("Sales",
	field("order_id", "Order ID", str, "Unique order reference", "ORD-10023", "SO-2024-001", "100045"),
	field("transaction_id", "Transaction ID", str, "Unique transaction reference", "TXN-88231", "a1b2c3d4"),
	field("quantity", "Quantity", num, "Number of units in the line or order", "1", "12", "250"),
	field("units_sold", "Units Sold", num, "Units sold in the period", "340", "18"),
	field("line_total", "Line Total", num, "Quantity times unit price for one line", "$59.97", "240.00"),
	field("order_date", "Order Date", date, "Date the order was placed", "2024-01-15", "03/22/2024"),
	field("transaction_date", "Transaction Date", date, "Date the transaction settled", "2024-02-01", "12/31/2023"),
	field("ship_date", "Ship Date", date, "Date the order left the warehouse", "2024-01-17"),
	field("delivery_date", "Delivery Date", date, "Date the order arrived", "2024-01-20"),
	field("order_status", "Order Status", str, "Fulfillment state of the order", "Shipped", "Delivered", "Cancelled"),
	field("order_priority", "Order Priority", str, "Handling priority", "High", "Medium", "Low"),
	field("sales_channel", "Sales Channel", str, "Where the sale happened", "Online", "Retail", "Wholesale"),
	field("sales_rep", "Sales Rep", str, "Salesperson credited with the sale", "Jane Smith", "R. Patel"),
	field("store_id", "Store ID", str, "Store or location code", "ST-014", "0042"),
	field("store_name", "Store Name", str, "Store or location name", "Downtown", "Mall Outlet"),
	field("returned", "Returned", flag, "Whether the item was returned", "true", "false", "yes", "no"),
	field("coupon_code", "Coupon Code", str, "Promotion code used", "SAVE10", "WELCOME"),
	field("deal_stage", "Deal Stage", str, "Pipeline stage of an opportunity", "Prospecting", "Negotiation", "Closed Won"),
	field("sales_quota", "Sales Quota", num, "Target for the rep or period", "$100,000", "25000"),
	field("commission", "Commission", num, "Commission paid on the sale", "$125.00", "5%"),
)
