package stats

import "github.com/nurseconnect/lms/internal/attempt"

type QuizSummary struct {
	AttemptCount   int `json:"attemptCount"`
	AveragePercent int `json:"averagePercent"`
}

type ProfessorSummary struct {
	TotalQuizzes   int `json:"totalQuizzes"`
	TotalAttempts  int `json:"totalAttempts"`
	AveragePercent int `json:"averagePercent"`
}

type QuizStat struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Grade          string `json:"grade"`
	AttemptCount   int    `json:"attemptCount"`
	AveragePercent int    `json:"averagePercent"`
}

type AttemptDetail struct {
	attempt.Attempt
	StudentFirstName string `json:"studentFirstName"`
	StudentLastName  string `json:"studentLastName"`
}

type Progress struct {
	ReadMaterialIDs []string `json:"readMaterialIds"`
	SolvedQuizIDs   []string `json:"solvedQuizIds"`
}

type PlatformCounts struct {
	Students   int `json:"students"`
	Professors int `json:"professors"`
	Materials  int `json:"materials"`
	Quizzes    int `json:"quizzes"`
}
