package dto

type MeResponse struct {
	Name          string `json:"name"`
	StudentNumber string `json:"student_number"`
}
