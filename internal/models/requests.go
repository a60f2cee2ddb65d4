package models

type MatchJobRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type CompareJDRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type ChatRequest struct {
	Message             string     `json:"message"`
	ResumeText          string     `json:"resumeText"`
	Resume              string     `json:"resume"`
	ConversationHistory []ChatTurn `json:"conversationHistory"`
}

// ResumeContext prefers resumeText and falls back to resume.
func (r ChatRequest) ResumeContext() string {
	if r.ResumeText != "" {
		return r.ResumeText
	}
	return r.Resume
}

type ChatResponse struct {
	Reply               string     `json:"reply"`
	ConversationHistory []ChatTurn `json:"conversationHistory"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
