package requests

// RegisterRequest is the body of POST /api/usuarios.
type RegisterRequest struct {
	Usuario     string `json:"usuario"     validate:"required,min=3"`
	Email       string `json:"email"       validate:"required,email"`
	Senha       string `json:"senha"       validate:"required,min=6"`
	Confirmacao string `json:"confirmacao" validate:"confirmed=senha"`
}

func (RegisterRequest) Messages() map[string]string {
	return map[string]string{
		"usuario.required":      "Usuário, email e senha são obrigatórios",
		"email.required":        "Usuário, email e senha são obrigatórios",
		"senha.required":        "Usuário, email e senha são obrigatórios",
		"usuario.min":           "O usuário deve ter pelo menos 3 caracteres",
		"email.email":           "Por favor, digite um e-mail válido",
		"senha.min":             "A senha deve ter pelo menos 6 caracteres",
		"confirmacao.confirmed": "As senhas não coincidem",
	}
}

// ApplyDefaults treats a missing confirmation as matching: the API never
// required one.
func (r *RegisterRequest) ApplyDefaults() {
	if r.Confirmacao == "" {
		r.Confirmacao = r.Senha
	}
}

// LoginRequest is the body of POST /api/usuarios/login.
type LoginRequest struct {
	Usuario string `json:"usuario" validate:"required"`
	Senha   string `json:"senha"   validate:"required"`
}

func (LoginRequest) Messages() map[string]string {
	return map[string]string{
		"usuario.required": "Usuário e senha são obrigatórios",
		"senha.required":   "Usuário e senha são obrigatórios",
	}
}
