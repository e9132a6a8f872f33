package fields

var geography = in("Geography",
	field("street_address", "Street Address", str, "Street line of an address", "123 Main St", "45 Elm Ave"),
	field("city", "City", str, "City name", "New York", "Chicago", "Austin"),
	field("state", "State", str, "State or province", "CA", "NY", "Texas"),
	field("country", "Country", str, "Country name", "USA", "Canada", "United Kingdom"),
	field("country_code", "Country Code", str, "ISO country code", "US", "GB"),
	field("postal_code", "Postal Code", str, "ZIP or postal code", "10001", "94105", "SW1A 1AA"),
	field("region", "Region", str, "Sales or geographic region", "North", "EMEA", "West"),
	field("territory", "Sales Territory", str, "Assigned sales territory", "Northeast", "APAC-2"),
	field("latitude", "Latitude", num, "Decimal latitude", "40.7128", "51.5074"),
	field("longitude", "Longitude", num, "Decimal longitude", "-74.0060", "-0.1278"),
	field("time_zone", "Time Zone", str, "IANA time zone", "America/New_York", "UTC"),
	field("shipping_address", "Shipping Address", str, "Delivery address", "500 Market St, San Francisco"),
	field("billing_address", "Billing Address", str, "Invoice address", "1 Infinite Loop, Cupertino"),
)
