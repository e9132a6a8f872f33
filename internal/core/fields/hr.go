package fields

var humanResources = in("Human Resources",
	field("employee_id", "Employee ID", str, "Employee reference", "EMP-1001", "E2044"),
	field("employee_name", "Employee Name", str, "Full name of the employee", "Jane Smith"),
	field("department", "Department", str, "Organizational unit", "Sales", "Engineering", "Finance"),
	field("job_title", "Job Title", str, "Role", "Account Executive", "Manager"),
	field("manager", "Manager", str, "Direct manager", "Alex Kim"),
	field("hire_date", "Hire Date", date, "Start date", "2021-08-16"),
	field("termination_date", "Termination Date", date, "End date", "2024-01-31"),
	field("salary", "Salary", num, "Annual base pay", "$65,000", "82000"),
	field("hourly_rate", "Hourly Rate", num, "Pay per hour", "$22.50", "18"),
	field("hours_worked", "Hours Worked", num, "Hours in the period", "40", "37.5"),
	field("overtime_hours", "Overtime Hours", num, "Hours beyond the standard week", "6", "0"),
	field("performance_score", "Performance Score", num, "Review rating", "4", "3.5"),
	field("full_time", "Full Time", flag, "Employed full time", "true", "false"),
)
