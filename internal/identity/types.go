package identity

// Account — аккаунт клиента у identity-провайдера.
type Account struct {
	Ref      string `json:"ref"`
	Email    string `json:"email"`
	Disabled bool   `json:"disabled"`
}

// UpdateAccountRequest — запрос на изменение состояния аккаунта.
type UpdateAccountRequest struct {
	Disabled bool `json:"disabled"`
}
