package handler

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8,max=512"`
	FirstName string `json:"first_name" validate:"max=128"`
	LastName  string `json:"last_name"  validate:"max=128"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	Key string `json:"key" validate:"required,max=512"`
}

type resetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Key      string `json:"key"      validate:"required,max=512"`
	Password string `json:"password" validate:"required,min=8,max=512"`
}
