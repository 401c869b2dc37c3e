package request

type SignUpRequest struct {
	Name     string `json:"name,omitempty" validate:"required,min=1,max=100"`
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100,plainpassword"`
	Age      int    `json:"age,omitempty" validate:"gte=0"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required"`
}

// UpdateUserRequest carries a partial profile update. Pointer fields
// distinguish "absent" from a zero value.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=100,plainpassword"`
	Age      *int    `json:"age,omitempty" validate:"omitempty,gte=0"`
}

type TaskRequest struct {
	Description string `json:"description,omitempty" validate:"required,max=1000"`
	Completed   *bool  `json:"completed,omitempty"`
}

type UpdateTaskRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=1000"`
	Completed   *bool   `json:"completed,omitempty"`
}
