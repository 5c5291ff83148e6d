package transport

import (
	"strconv"

	"github.com/Skotchmaster/storefront/internal/service"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
	Age      any    `json:"age"`
	Gender   string `json:"gender"`
}

// Input converts the request into the service input. Age may arrive as a
// JSON number or a numeric string; zero, false and null count as missing,
// true counts as 1.
func (r RegisterRequest) Input() service.RegisterInput {
	return service.RegisterInput{
		Username: r.Username,
		Password: r.Password,
		Email:    r.Email,
		Phone:    r.Phone,
		FullName: r.FullName,
		Age:      ageString(r.Age),
		Gender:   r.Gender,
	}
}

func ageString(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		if a == 0 {
			return ""
		}
		// fractions are truncated toward zero
		return strconv.FormatInt(int64(a), 10)
	case bool:
		if !a {
			return ""
		}
		return "1"
	default:
		// arrays and objects are never a valid age
		return "invalid"
	}
}

type RegisterResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
