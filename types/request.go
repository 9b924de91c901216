package types

type QueryRequest struct {
	Question   string `json:"question"`
	MaxSources int    `json:"max_sources"`
}

type SearchRequest struct {
	Query string `form:"query"`
	Limit int    `form:"limit"`
}

type UploadRequest struct {
	Title string `json:"title"`
}
