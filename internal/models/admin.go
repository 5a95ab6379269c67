package models

// AdminUser представляет учётную запись оператора панели управления.
type AdminUser struct {
	Username     string // Имя оператора (уникальное)
	PasswordHash string // Хэш пароля (bcrypt)
	Role         string // Роль, на данный момент всегда admin
}

// DummyLogin используется для приёма данных входа оператора.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}
