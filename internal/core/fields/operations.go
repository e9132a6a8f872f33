package fields

var operations = in("Operations",
	field("shipment_id", "Shipment ID", str, "Shipment reference", "SHP-5512"),
	field("tracking_number", "Tracking Number", str, "Carrier tracking code", "1Z999AA10123456784"),
	field("carrier", "Carrier", str, "Shipping carrier", "UPS", "FedEx", "DHL"),
	field("shipping_method", "Shipping Method", str, "Service level", "Ground", "Express", "Overnight"),
	field("delivery_status", "Delivery Status", str, "Shipment state", "In Transit", "Delivered", "Exception"),
	field("delivery_time", "Delivery Time", num, "Days from shipment to delivery", "3", "5"),
	field("fulfillment_center", "Fulfillment Center", str, "Facility that shipped the order", "FC-Reno", "DFW2"),
	field("po_number", "PO Number", str, "Purchase order reference", "PO-55012"),
	field("vendor", "Vendor", str, "Vendor supplying goods or services", "Uline", "Staples"),
	field("units_produced", "Units Produced", num, "Output for the period", "1200", "86"),
	field("defect_rate", "Defect Rate", num, "Share of units failing inspection", "0.5%", "0.012"),
	field("downtime_hours", "Downtime Hours", num, "Hours of unplanned stoppage", "2.5", "0"),
	field("capacity_utilization", "Capacity Utilization", num, "Share of capacity in use", "85%", "0.72"),
)
