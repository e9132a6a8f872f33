package fields

var support = in("Customer Support",
	field("ticket_id", "Ticket ID", str, "Support ticket reference", "TCK-3301", "#48812"),
	field("ticket_status", "Ticket Status", str, "Ticket state", "Open", "Closed", "Pending"),
	field("ticket_priority", "Ticket Priority", str, "Urgency", "Urgent", "High", "Normal"),
	field("issue_type", "Issue Type", str, "Reason for contact", "Billing", "Technical", "Shipping"),
	field("support_agent", "Support Agent", str, "Agent handling the ticket", "Sam Lee"),
	field("first_response_time", "First Response Time", num, "Hours until first reply", "1.5", "4"),
	field("resolution_time", "Resolution Time", num, "Hours until resolved", "26", "3.25"),
	field("resolved_date", "Resolved Date", date, "Date the ticket closed", "2024-02-03"),
	field("satisfaction_score", "Satisfaction Score", num, "CSAT rating", "4.5", "9"),
	field("nps_score", "NPS Score", num, "Net promoter response", "10", "-20"),
	field("escalated", "Escalated", flag, "Ticket was escalated", "yes", "no"),
	field("customer_feedback", "Customer Feedback", str, "Free-text comment", "Fast delivery, thanks!"),
)
