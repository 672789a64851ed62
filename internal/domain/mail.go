package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"nom_complet"`
	Username string `json:"nom_utilisateur"`
	Password string `json:"mot_de_passe"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"nom_complet"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"nom_complet"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}
