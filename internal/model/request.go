package model

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
}

type GeneratePRDRequest struct {
	Title        string       `json:"title"`
	InputPrompt  string       `json:"input_prompt"`
	TemplateType TemplateType `json:"template_type"`
	Format       Format       `json:"format"`
}

type UpdatePRDRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Format  *Format `json:"format,omitempty"`
}
