package fields

var inventory = in("Inventory",
	field("stock_quantity", "Stock Quantity", num, "Units on hand", "150", "0", "42"),
	field("reorder_point", "Reorder Point", num, "Stock level that triggers a reorder", "20", "50"),
	field("reorder_quantity", "Reorder Quantity", num, "Units ordered per restock", "100", "500"),
	field("safety_stock", "Safety Stock", num, "Buffer kept against demand spikes", "25", "10"),
	field("units_on_order", "Units On Order", num, "Units ordered but not received", "200", "0"),
	field("inventory_value", "Inventory Value", num, "Value of stock on hand", "$12,500", "880.40"),
	field("stock_status", "Stock Status", str, "Availability state", "In Stock", "Low Stock", "Out of Stock"),
	field("warehouse", "Warehouse", str, "Storage facility", "WH-East", "Main Warehouse"),
	field("bin_location", "Bin Location", str, "Shelf or bin code", "A-12-3", "R4-S2"),
	field("lead_time", "Lead Time", num, "Days from order to receipt", "7", "14"),
	field("last_restock_date", "Last Restock Date", date, "Most recent restock", "2024-02-20"),
	field("expiration_date", "Expiration Date", date, "Date the stock expires", "2025-06-30"),
	field("batch_number", "Batch Number", str, "Lot or batch reference", "LOT-2024-07", "B1192"),
	field("inventory_turnover", "Inventory Turnover", num, "Times stock is sold through per period", "4.2", "8"),
	field("damaged_units", "Damaged Units", num, "Units written off as damaged", "3", "0"),
)
