package fields

var product = in("Product",
	field("product_id", "Product ID", str, "Unique product reference", "PRD-001", "P-4432", "10023"),
	field("sku", "SKU", str, "Stock keeping unit", "SKU-12345", "WID-BLU-L"),
	field("product_name", "Product Name", str, "Display name of the product", "Wireless Mouse", "Blue Widget"),
	field("category", "Category", str, "Top-level grouping", "Electronics", "Clothing", "Home & Garden"),
	field("product_category", "Product Category", str, "Merchandising category", "Accessories", "Furniture"),
	field("subcategory", "Subcategory", str, "Second-level grouping", "Laptops", "T-Shirts"),
	field("brand", "Brand", str, "Manufacturer or label", "Acme", "Contoso"),
	field("supplier", "Supplier", str, "Supplying company", "Global Supplies Inc"),
	field("supplier_id", "Supplier ID", str, "Supplier reference", "SUP-22"),
	field("product_description", "Product Description", str, "Marketing description", "Ergonomic wireless mouse"),
	field("barcode", "Barcode", str, "UPC or EAN code", "012345678905"),
	field("color", "Color", str, "Product color", "Red", "Blue", "Black"),
	field("size", "Size", str, "Product size", "S", "M", "XL"),
	field("weight", "Weight", num, "Shipping weight", "1.5", "250"),
	field("msrp", "MSRP", num, "Manufacturer suggested retail price", "$29.99", "199"),
	field("rating", "Product Rating", num, "Average review rating", "4.5", "3.8"),
	field("review_count", "Review Count", num, "Number of reviews", "128", "7"),
	field("launch_date", "Launch Date", date, "Date the product went on sale", "2023-09-01"),
	field("active", "Active", flag, "Product is currently sold", "true", "false"),
)
