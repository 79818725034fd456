package models

// UploadResult is the typed outcome of a file upload.
type UploadResult struct {
	Success      bool    `json:"success"`
	FileURL      *string `json:"file_url"`
	Markdown     string  `json:"markdown,omitempty"`
	ErrorMessage *string `json:"error_message"`
	Err          error   `json:"-"`
}
