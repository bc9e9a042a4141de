package domain

// Credential record for a staff account. Created on signup, read on login.
type Credential struct {
	Username     string
	PasswordHash string
}

// Fields accepted at signup.
type SignupInput struct {
	Username        string `validate:"required,min=3,max=50"`
	Password        string `validate:"required,min=1,max=72"`
	ConfirmPassword string `validate:"required"`
}
