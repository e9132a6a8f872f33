package fields

var timeFields = in("Time",
	field("date", "Date", date, "Calendar date of the record", "2024-01-15", "01/15/2024"),
	field("timestamp", "Timestamp", date, "Date and time of the event", "2024-01-15T10:30:00Z"),
	field("created_at", "Created At", date, "When the record was created", "2024-01-15 09:12:44"),
	field("updated_at", "Updated At", date, "When the record last changed", "2024-02-02 17:40:01"),
	field("year", "Year", num, "Calendar year", "2023", "2024"),
	field("quarter", "Quarter", str, "Calendar or fiscal quarter", "Q1", "Q2 2024"),
	field("month", "Month", str, "Month name or number", "January", "Jan", "2024-01"),
	field("week", "Week", num, "Week of year", "12", "52"),
	field("day_of_week", "Day of Week", str, "Weekday", "Monday", "Tue"),
	field("fiscal_year", "Fiscal Year", str, "Fiscal year label", "FY2024", "2023-24"),
	field("period", "Period", str, "Reporting period", "2024-P03", "H1"),
)
