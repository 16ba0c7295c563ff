package domain

// AnalyzeInput is the request body for an on-demand report run
type AnalyzeInput struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Year     int    `json:"year" validate:"required,min=2008"`
}

// LanguagesView is the language histogram response for one stored year
type LanguagesView struct {
	Username  string         `json:"username"`
	Year      int            `json:"year"`
	Languages map[string]int `json:"languages"`
}
