package dto

// TranscribeRequest carries a base64 encoded audio blob.
type TranscribeRequest struct {
	Audio string `json:"audio" form:"audio" binding:"required"`
}

// TranscribeDTO is the formatted note produced from an audio blob.
type TranscribeDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
