package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// RoleForUsername is fixed at registration: the account named "admin" is
// the only administrator.
func RoleForUsername(username string) string {
	if username == "admin" {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	FullName     string `json:"full_name"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Role         string `gorm:"not null"                 json:"role"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

// Product.Category is free text and not a reference to Category.
type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `gorm:"not null"                 json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Category    string  `gorm:"not null"                 json:"category"`
	ImageURL    string  `gorm:"not null"                 json:"image_url"`
}
