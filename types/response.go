package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type UploadResponse struct {
	Filename          string `json:"filename"`
	SectionsProcessed int    `json:"sections_processed"`
}

type ProcessingDocumentStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Sections int    `json:"sections,omitempty"`
}

type SearchResponse struct {
	Query   string            `json:"query"`
	Results []RetrievalResult `json:"results"`
	Count   int               `json:"count"`
}

type DocumentInfo struct {
	Filename     string `json:"filename"`
	SizeBytes    int64  `json:"size_bytes"`
	LastModified int64  `json:"last_modified"`
}

type CountResponse struct {
	Count int `json:"count"`
}
