package fields

var marketing = in("Marketing",
	field("campaign_id", "Campaign ID", str, "Campaign reference", "CMP-001", "fb_0423"),
	field("campaign_name", "Campaign Name", str, "Campaign label", "Spring Sale", "Black Friday"),
	field("marketing_channel", "Marketing Channel", str, "Channel the campaign ran on", "Email", "Social", "Paid Search"),
	field("traffic_source", "Traffic Source", str, "Where the visit or lead came from", "google", "facebook", "newsletter"),
	field("medium", "Medium", str, "Attribution medium", "cpc", "organic", "email"),
	field("impressions", "Impressions", num, "Times the ad was shown", "125000", "8400"),
	field("clicks", "Clicks", num, "Ad clicks", "3200", "145"),
	field("ctr", "Click-Through Rate", num, "Clicks divided by impressions", "2.5%", "0.031"),
	field("conversions", "Conversions", num, "Completed goal actions", "88", "12"),
	field("conversion_rate", "Conversion Rate", num, "Conversions divided by visits or clicks", "3.4%", "0.018"),
	field("ad_spend", "Ad Spend", num, "Money spent on the campaign", "$1,200.00", "350"),
	field("cpc", "Cost Per Click", num, "Spend divided by clicks", "$0.45", "1.20"),
	field("cpa", "Cost Per Acquisition", num, "Spend divided by conversions", "$24.00", "18.5"),
	field("roas", "ROAS", num, "Return on ad spend", "3.2", "450%"),
	field("leads", "Leads", num, "Leads generated", "56", "210"),
	field("email_opens", "Email Opens", num, "Emails opened", "1840", "92"),
	field("open_rate", "Open Rate", num, "Opens divided by delivered emails", "22%", "0.41"),
	field("unsubscribes", "Unsubscribes", num, "Recipients who opted out", "14", "0"),
	field("campaign_start_date", "Campaign Start Date", date, "First day of the campaign", "2024-03-01"),
	field("campaign_end_date", "Campaign End Date", date, "Last day of the campaign", "2024-03-31"),
)
