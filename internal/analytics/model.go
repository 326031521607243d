package analytics

type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

type CodeCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

type UserCount struct {
	UserID string `json:"userId"`
	Count  int    `json:"count"`
}

type ErrorCodeCount struct {
	ErrorCode string `json:"errorCode"`
	Count     int    `json:"count"`
}

type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// Stats is the dashboard snapshot: seven independent projections of one
// event collection. It is recomputed per request and never cached.
type Stats struct {
	TotalPageViews     int              `json:"totalPageViews"`
	PageViews          []PathCount      `json:"pageViews"`
	TopSearchedCodes   []CodeCount      `json:"topSearchedCodes"`
	TopBrands          []BrandCount     `json:"topBrands"`
	TopUsers           []UserCount      `json:"topUsers"`
	ErrorCodeFrequency []ErrorCodeCount `json:"errorCodeFrequency"`
	ActivityByHour     []HourCount      `json:"activityByHour"`
	TotalSearches      int              `json:"totalSearches"`
}
