package models

// События для публикации в RabbitMQ. Потребители — внешние
// аналитические сервисы, сам сервис их не читает.

type PairCreatedEvent struct {
	FilePairID     string `json:"file_pair_id"`
	BaseName       string `json:"base_name"`
	UploaderID     string `json:"uploader_id"`
	AudioAvailable bool   `json:"audio_available"`
	TextAvailable  bool   `json:"text_available"`
	Timestamp      int64  `json:"timestamp"`
}

type ReviewCompletedEvent struct {
	ReviewID     string `json:"review_id"`
	FilePairID   string `json:"file_pair_id"`
	ReviewerID   string `json:"reviewer_id"`
	TeamTag      string `json:"team_tag"`
	ReviewStatus string `json:"review_status"`
	SoldStatus   string `json:"sold_status"`
	Timestamp    int64  `json:"timestamp"`
}
