package dto

// SeedEntry describes one demo entry to insert.
type SeedEntry struct {
	Code     string `json:"code" validate:"required"`
	Title    string `json:"title" validate:"required"`
	TeamName string `json:"team_name"`
	Status   string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// SeedJuror describes one demo juror to insert.
type SeedJuror struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=juror admin"`
}

// SeedRequest carries token-guarded demo data for development setups.
type SeedRequest struct {
	Token     string                  `json:"token" validate:"required"`
	Entries   []SeedEntry             `json:"entries" validate:"dive"`
	Jurors    []SeedJuror             `json:"jurors" validate:"dive"`
	Questions []QuestionCreateRequest `json:"questions" validate:"dive"`
}

// SeedReport summarizes what the seeding run inserted.
type SeedReport struct {
	Entries   int `json:"entries"`
	Jurors    int `json:"jurors"`
	Questions int `json:"questions"`
}
