package dto

type CreateHelpRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

type SetTrustRequest struct {
	CountsTowardTrust *bool  `json:"counts_toward_trust"`
	Note              string `json:"note"`
}

type CreateStoryRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type LikeResponse struct {
	Liked bool `json:"liked"`
}

type RecordGameRequest struct {
	Game  string `json:"game"`
	Score int    `json:"score"`
}

type LoginResponse struct {
	FirstLoginToday bool `json:"first_login_today"`
}
