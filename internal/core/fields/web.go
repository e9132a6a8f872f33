package fields

var webAnalytics = in("Web Analytics",
	field("session_id", "Session ID", str, "Visit reference", "sess_8f2a", "1029384756"),
	field("user_id", "User ID", str, "Account or visitor reference", "u_1029", "4471"),
	field("page_views", "Page Views", num, "Pages viewed", "15420", "7"),
	field("unique_visitors", "Unique Visitors", num, "Distinct visitors", "3120", "88"),
	field("bounce_rate", "Bounce Rate", num, "Single-page sessions share", "42%", "0.38"),
	field("session_duration", "Session Duration", num, "Seconds per session", "185", "62.5"),
	field("page_url", "Page URL", str, "Visited page", "/products/widget", "https://example.com/pricing"),
	field("landing_page", "Landing Page", str, "First page of the session", "/home", "/sale"),
	field("referrer", "Referrer", str, "Referring site", "google.com", "t.co"),
	field("device_type", "Device Type", str, "Device class", "Mobile", "Desktop", "Tablet"),
	field("browser", "Browser", str, "Browser name", "Chrome", "Safari", "Firefox"),
	field("cart_abandoned", "Cart Abandoned", flag, "Session left items in the cart", "true", "false"),
)
