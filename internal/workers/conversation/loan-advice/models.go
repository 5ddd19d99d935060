package loanadvice

import "loan-advisor/internal/models"

type Input struct {
	Message string `json:"message"`
}

type Output struct {
	Answer       string              `json:"answer"`
	AnswerSource string              `json:"answerSource"`
	Intent       string              `json:"intent"`
	Hints        models.ProfileHints `json:"profileHints"`
	FallbackUsed bool                `json:"fallbackUsed"`
}
