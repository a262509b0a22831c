package dashboard

import "time"

// trailingMonths is the width of the pages-over-time window, current month included.
const trailingMonths = 6

const monthLabelLayout = "Jan 2006"

type SitePageCount struct {
	SiteID    string `json:"site_id"`
	SiteName  string `json:"site_name"`
	PageCount int64  `json:"page_count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type StatusBreakdown struct {
	Draft     int64 `json:"draft"`
	Published int64 `json:"published"`
}

type PageTypeCount struct {
	PageType string `json:"page_type"`
	Count    int64  `json:"count"`
}

// Stats is the dashboard payload for one user.
type Stats struct {
	PagesBySite     []SitePageCount `json:"pagesBySite"`
	PagesOverTime   []MonthCount    `json:"pagesOverTime"`
	StatusBreakdown StatusBreakdown `json:"statusBreakdown"`
	PageTypes       []PageTypeCount `json:"pageTypes"`
}

type monthKey struct {
	year  int
	month time.Month
}
