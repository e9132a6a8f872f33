package fields

var customer = in("Customer",
	field("customer_id", "Customer ID", str, "Unique customer reference", "CUST-001", "C10042", "84213"),
	field("customer_name", "Customer Name", str, "Full name of the customer", "John Doe", "Acme Corp"),
	field("customer_email", "Customer Email", str, "Customer email address", "john@example.com", "sales@acme.io"),
	field("phone", "Phone Number", str, "Contact phone number", "(555) 123-4567", "+1-202-555-0143"),
	field("first_name", "First Name", str, "Given name", "John", "Maria"),
	field("last_name", "Last Name", str, "Family name", "Doe", "Garcia"),
	field("company_name", "Company Name", str, "Customer organization", "Acme Corp", "Globex"),
	field("customer_segment", "Customer Segment", str, "Market segment", "Enterprise", "SMB", "Consumer"),
	field("customer_type", "Customer Type", str, "Relationship type", "New", "Returning", "VIP"),
	field("signup_date", "Signup Date", date, "Date the account was created", "2023-06-01"),
	field("last_purchase_date", "Last Purchase Date", date, "Most recent purchase", "2024-03-10"),
	field("date_of_birth", "Date of Birth", date, "Customer birth date", "1985-04-12"),
	field("age", "Age", num, "Age in years", "34", "52"),
	field("gender", "Gender", str, "Self-reported gender", "Male", "Female", "Non-binary"),
	field("loyalty_tier", "Loyalty Tier", str, "Loyalty program level", "Gold", "Silver", "Bronze"),
	field("loyalty_points", "Loyalty Points", num, "Points balance", "1200", "85"),
	field("lifetime_value", "Lifetime Value", num, "Total value of the customer to date", "$2,450.00", "310"),
	field("subscribed", "Subscribed", flag, "Opted in to communications", "true", "false"),
	field("churned", "Churned", flag, "Customer has stopped buying", "yes", "no"),
)
