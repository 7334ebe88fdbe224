package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/requests"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
)

type userPayload struct {
	Message string      `json:"message"`
	Usuario models.User `json:"usuario"`
	Token   string      `json:"token,omitempty"`
}

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

// Store handles POST /api/usuarios.
func (uc *UserController) Store(c *ctx.Context) {
	var in requests.RegisterRequest
	if !c.BindJSON(&in) {
		return
	}
	in.ApplyDefaults()

	u, err := uc.service.Register(c.Context(), in)
	if err != nil {
		fail(c, err, "Erro ao criar usuário")
		return
	}
	c.JSON(http.StatusCreated, userPayload{Message: "Usuário criado com sucesso", Usuario: u})
}

// Login handles POST /api/usuarios/login.
func (uc *UserController) Login(c *ctx.Context) {
	var in requests.LoginRequest
	if !c.BindJSON(&in) {
		return
	}

	session, err := uc.service.Login(c.Context(), in)
	if err != nil {
		fail(c, err, "Erro ao verificar login")
		return
	}
	c.JSON(http.StatusOK, userPayload{
		Message: "Login realizado com sucesso",
		Usuario: session.User,
		Token:   session.Token,
	})
}

// ShowByUsername handles GET /api/usuarios/buscar/{usuario}.
func (uc *UserController) ShowByUsername(c *ctx.Context) {
	u, err := uc.service.FindByUsername(c.Context(), c.Param("usuario"))
	if err != nil {
		fail(c, err, "Erro ao buscar usuário")
		return
	}
	c.JSON(http.StatusOK, u)
}

// ShowByEmail handles GET /api/usuarios/email/{email}.
func (uc *UserController) ShowByEmail(c *ctx.Context) {
	u, err := uc.service.FindByEmail(c.Context(), c.Param("email"))
	if err != nil {
		fail(c, err, "Erro ao buscar usuário")
		return
	}
	c.JSON(http.StatusOK, u)
}
